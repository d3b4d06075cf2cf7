package style

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#ff8000", RGB{255, 128, 0}, true},
		{"#f80", RGB{255, 136, 0}, true},
		{"#000000", RGB{0, 0, 0}, true},
		{"#FFF", RGB{255, 255, 255}, true},
		{"#abc", RGB{0xaa, 0xbb, 0xcc}, true},
		{"blue", RGB{}, false},
		{"#ff80", RGB{}, false}, // 4 hex digits
		{"#gggggg", RGB{}, false},
		{"ff8000", RGB{}, false}, // missing '#'
		{"#ff800", RGB{}, false},
		{"", RGB{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePx(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{20, 20, true},
		{20.5, 20.5, true},
		{"20", 20, true},
		{"20px", 20, true},
		{"1.5px", 1.5, true},
		{"px", 0, false},
		{"20%", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePx(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePx(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDimension(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{20, "20px", true},
		{12.5, "12.5px", true},
		{"50%", "50%", true},
		{"20", "20px", true},
		{"20px", "20px", true},
		{"20em", "", false},
		{"%", "", false},
		{"px", "", false},
		{nil, "", false},
		{[]int{1}, "", false},
	}
	for _, tt := range tests {
		got, ok := Dimension(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Dimension(%v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveBox(t *testing.T) {
	tests := []struct {
		name                              string
		all, x, y, top, right, bottom, left any
		want                              [4]float64
	}{
		{
			name: "side beats axis beats all",
			all:  10, x: 20, top: 5,
			want: [4]float64{5, 20, 10, 20},
		},
		{
			name: "all only",
			all:  8,
			want: [4]float64{8, 8, 8, 8},
		},
		{
			name: "defaults to zero",
			want: [4]float64{0, 0, 0, 0},
		},
		{
			name: "string layers parse as pixels",
			all:  "4px", left: "16px",
			want: [4]float64{4, 4, 4, 16},
		},
		{
			name: "unparseable layer falls through",
			all:  12, top: "oops",
			want: [4]float64{12, 12, 12, 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBox(tt.all, tt.x, tt.y, tt.top, tt.right, tt.bottom, tt.left)
			if got != tt.want {
				t.Errorf("ResolveBox = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_BuildsHostBlock(t *testing.T) {
	resolved := Resolve(Style{
		Background: "#000000",
		Color:      "#f80",
		FontSize:   "14px",
		Width:      100,
		Height:     "50%",
		Padding:    10, PaddingX: 20, PaddingTop: 5,
		Gap: "8",
	})

	if resolved.Background == nil || *resolved.Background != (RGB{0, 0, 0}) {
		t.Errorf("background = %v", resolved.Background)
	}
	if resolved.Color == nil || *resolved.Color != (RGB{255, 136, 0}) {
		t.Errorf("color = %v", resolved.Color)
	}
	if resolved.FontSize == nil || *resolved.FontSize != 14 {
		t.Errorf("fontSize = %v", resolved.FontSize)
	}
	if resolved.Width != "100px" || resolved.Height != "50%" {
		t.Errorf("dimensions = %q, %q", resolved.Width, resolved.Height)
	}
	if resolved.Padding == nil || *resolved.Padding != [4]float64{5, 20, 10, 20} {
		t.Errorf("padding = %v", resolved.Padding)
	}
	if resolved.Gap == nil || *resolved.Gap != 8 {
		t.Errorf("gap = %v", resolved.Gap)
	}
	if resolved.Margin != nil {
		t.Errorf("margin should be absent, got %v", resolved.Margin)
	}
}

func TestResolve_UnparseableInputIsAbsentNotZero(t *testing.T) {
	resolved := Resolve(Style{
		Background: "blue",
		Width:      "20em",
		FontSize:   "huge",
	})
	if !resolved.IsZero() {
		t.Errorf("expected a fully absent block, got %+v", resolved)
	}
}
