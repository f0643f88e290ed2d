package gifenc

import "testing"

func TestParseFontOptions(t *testing.T) {
	cases := []struct {
		name      string
		family    string
		size      int
		color     string
		wantName  string
		wantSize  int
		wantColor string
	}{
		{"defaults", "", 0, "", "arial", 24, "FFFFFF"},
		{"valid", "Verdana", 32, "#FF0000", "verdana", 32, "FF0000"},
		{"hash stripped", "arial", 24, "00FF00", "arial", 24, "00FF00"},
		{"size below floor", "arial", 10, "", "arial", 24, "FFFFFF"},
		{"bad color", "arial", 24, "red", "arial", 24, "FFFFFF"},
		{"short hex", "arial", 24, "#FFF", "arial", 24, "FFFFFF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFontOptions(tc.family, tc.size, tc.color)
			if got.Name != tc.wantName || got.Size != tc.wantSize || got.Color != tc.wantColor {
				t.Errorf("got %+v, want {%s %d %s}", got, tc.wantName, tc.wantSize, tc.wantColor)
			}
		})
	}
}

func TestFontSizeFor(t *testing.T) {
	f := ParseFontOptions("arial", 24, "")

	// 5% of 1080 = 54.
	if got := f.sizeFor(1080); got != 54 {
		t.Errorf("sizeFor(1080) = %d, want 54", got)
	}

	// Small frames still get the legibility floor.
	if got := f.sizeFor(240); got != 24 {
		t.Errorf("sizeFor(240) = %d, want 24", got)
	}

	// A requested size above the scaled size wins.
	big := ParseFontOptions("arial", 80, "")
	if got := big.sizeFor(1080); got != 80 {
		t.Errorf("sizeFor with requested 80 = %d, want 80", got)
	}
}
