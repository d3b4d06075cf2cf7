// Package dom implements the headless node tree that a reactive reconciler
// mutates through familiar DOM-style calls.
//
// The tree has two node kinds: Element (a tagged node carrying props, a
// style record and ordered children) and Text (a leaf character-data
// holder). Every mutation keeps the parent back-reference and the parent's
// child list consistent, and every operation is total: removing a node that
// is not a child or inserting before a missing reference degrades to a
// no-op or an append, never to a fault, so a reconciler may issue
// speculative or idempotent calls freely.
//
// Events dispatch on a node and bubble through ancestors until stopped.
// Listener registration returns an explicit Subscription handle; removal
// never depends on callback identity.
//
// The tree is exclusively owned by a single logical thread: all mutation
// and dispatch happen synchronously inside the caller's stack frame, so no
// locking exists here.
package dom
