package dialect

import "testing"

func TestSplitPrefix(t *testing.T) {
	known := map[string]bool{"if": true, "raw": true, "for": true, "endif": true}
	block := Rules{Set: Docxtpl(), AllowForeign: true, Known: func(w string) bool { return known[w] }}
	expr := Rules{Set: Docxtpl()}

	tests := []struct {
		name  string
		rules Rules
		body  string
		want  Split
	}{
		{"plain", block, " if x ", Split{Name: "if", Args: " x "}},
		{"glued recognized", block, "p if x ", Split{Prefix: "p", Name: "if", Args: " x "}},
		{"spaced recognized", block, " tr for i in rows ", Split{Prefix: "tr", Name: "for", Args: " i in rows "}},
		{"raw is not r", block, " raw ", Split{Name: "raw", Args: " "}},
		{"lone prefix word", block, "tc ", Split{Name: "tc", Args: " "}},
		{"foreign glued", block, "xx foo ", Split{Foreign: "xx", Name: "foo", Args: " "}},
		{"foreign needs glue", block, " fi x ", Split{Name: "fi", Args: " x "}},
		{"known never prefix", block, "if x ", Split{Name: "if", Args: " x "}},
		{"expr rich text", expr, "r rich ", Split{Prefix: "r", Name: "rich", Args: " "}},
		{"expr no foreign", expr, "a and b", Split{Name: "a", Args: " and b"}},
		{"expr attr", expr, " item.name ", Split{Name: "item", Args: ".name "}},
		{"no name", block, " 'x' ", Split{Args: "'x' "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rules.SplitPrefix(tt.body)
			if got != tt.want {
				t.Fatalf("SplitPrefix(%q): want %+v, got %+v", tt.body, tt.want, got)
			}
		})
	}
}

func TestNewSet(t *testing.T) {
	set, err := NewSet("p", "TR", "zz")
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if sc, ok := set.Lookup("tr"); !ok || sc != ScopeRow {
		t.Fatalf("tr: got %v %v", sc, ok)
	}
	if sc, _ := set.Lookup("zz"); sc != ScopeCustom {
		t.Fatalf("zz: want custom, got %v", sc)
	}
	if _, err := NewSet("abc"); err == nil {
		t.Fatal("expected error for 3-letter prefix")
	}
	if got := set.Names(); len(got) != 3 || got[0] != "p" {
		t.Fatalf("Names: %v", got)
	}
}
