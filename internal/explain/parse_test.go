package explain

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantOK    bool
		wantText  string
		wantKeys  []string
		wantExamp []string
	}{
		{
			name: "headers on their own lines",
			text: "EXPLANATION:\nSlope measures steepness.\nIt is rise over run.\n\n" +
				"KEY POINTS:\n- m = rise/run\n- Parallel lines share slope\n\n" +
				"EXAMPLES:\n1. (1,2) to (3,8) gives 3",
			wantOK:    true,
			wantText:  "Slope measures steepness.\nIt is rise over run.",
			wantKeys:  []string{"m = rise/run", "Parallel lines share slope"},
			wantExamp: []string{"(1,2) to (3,8) gives 3"},
		},
		{
			name:      "inline section text",
			text:      "EXPLANATION: Inline text here.\nKEY POINTS: one\nEXAMPLES: ex",
			wantOK:    true,
			wantText:  "Inline text here.",
			wantKeys:  []string{"one"},
			wantExamp: []string{"ex"},
		},
		{
			name:     "markdown decorated headers",
			text:     "**Explanation**\nBody\n## Key Points\n* a\n* b",
			wantOK:   true,
			wantText: "Body",
			wantKeys: []string{"a", "b"},
		},
		{
			name:     "continuation lines join the previous item",
			text:     "Explanation:\nBody\nKey points:\n- first point\n  continues here\n- second",
			wantOK:   true,
			wantText: "Body",
			wantKeys: []string{"first point continues here", "second"},
		},
		{
			name:     "prose starting with a section word is not a header",
			text:     "Explanation:\nBody\nExamples of this are everywhere.",
			wantOK:   true,
			wantText: "Body\nExamples of this are everywhere.",
		},
		{
			name:   "flat text",
			text:   "Just a sentence about circles.",
			wantOK: false,
		},
		{
			name:   "no explanation section",
			text:   "KEY POINTS:\n- a\nEXAMPLES:\n- b",
			wantOK: false,
		},
		{
			name:   "empty explanation section",
			text:   "EXPLANATION:\n\nKEY POINTS:\n- a",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSections(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseSections() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if !reflect.DeepEqual(got.KeyPoints, tt.wantKeys) {
				t.Errorf("KeyPoints = %q, want %q", got.KeyPoints, tt.wantKeys)
			}
			if !reflect.DeepEqual(got.Examples, tt.wantExamp) {
				t.Errorf("Examples = %q, want %q", got.Examples, tt.wantExamp)
			}
		})
	}
}
