package text

import "testing"

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"de_DE.UTF-8", "de", true},
		{"en_US", "en", true},
		{"pt-BR", "pt", true},
		{"fr_FR@euro", "fr", true},
		{"ja", "ja", true},
		{"C", "", false},
		{"POSIX", "", false},
		{"C.UTF-8", "", false},
		{"", "", false},
		{"!!", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLocale(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeLocale(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSystemLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "sv_SE.UTF-8")
	if got := SystemLocale(); got != "sv" {
		t.Errorf("SystemLocale() = %q, want %q", got, "sv")
	}

	t.Setenv("LC_ALL", "it_IT")
	if got := SystemLocale(); got != "it" {
		t.Errorf("SystemLocale() with LC_ALL = %q, want %q", got, "it")
	}
}

func TestSystemLocaleFallback(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "C")
	if got := SystemLocale(); got != DefaultLocale {
		t.Errorf("SystemLocale() = %q, want %q", got, DefaultLocale)
	}
}
