package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcastell/legajo/internal/logger"
	"github.com/rcastell/legajo/internal/model"
)

func TestExtractMicrochipID(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "plain marker and id",
			text: "Identificación animal\nMICROCHIP 941000031499323\nRaza: criollo",
			want: "941000031499323",
		},
		{
			name: "marker with no prefix",
			text: "microchip no 941000031499323",
			want: "941000031499323",
		},
		{
			name: "digits split by ocr",
			text: "Microchip 941000031 499323",
			want: "941000031499323",
		},
		{
			name: "trailing extra digit",
			text: "microchip 9410000314993231",
			want: "941000031499323",
		},
		{
			name: "id far from the marker",
			text: "microchip del paciente\notros datos\nnumero 941000031499323 registrado",
			want: "941000031499323",
		},
		{
			name: "nine six split in the vicinity",
			text: "microchip del animal: nueve\n941000031 499323\n",
			want: "941000031499323",
		},
		{
			name:    "no marker",
			text:    "historia clinica sin identificacion",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "   ",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMicrochipID(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidMicrochipID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"941000031499323", true},
		{"94100003149932", false},
		{"9410000314993231", false},
		{"94100003149932a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidMicrochipID(tt.id); got != tt.want {
			t.Errorf("ValidMicrochipID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestFolderName(t *testing.T) {
	got := FolderName(42, "941000031499323")
	if got != "HC_42_UN_941000031499323" {
		t.Errorf("FolderName = %q", got)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HC_1_UN_941000031499323", "HC_1_UN_941000031499323"},
		{`bad<name>:with/chars`, "bad_name__with_chars"},
		{"  .dotted.  ", "dotted"},
		{"", "unnamed"},
		{"///", "unnamed"},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteIssuesFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(model.ExtractionConfig{}, logger.Nop())
	record := &model.PatientRecord{
		HistoryPages:      []int{1, 2},
		UnclassifiedPages: []int{3},
		Issues:            []string{"missing identity pages", "missing bill pages"},
	}

	if err := e.writeIssuesFile(dir, "HC_7_UN_941000031499323", record); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, issuesFileName))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{
		"HC_7_UN_941000031499323",
		"missing identity pages",
		"missing bill pages",
		"Unclassified pages: 3",
		"History pages:      1, 2",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("issues file missing %q:\n%s", want, content)
		}
	}
}

func TestPageSelection(t *testing.T) {
	got := pageSelection([]int{3, 1, 7})
	want := []string{"3", "1", "7"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
