package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rcastell/legajo/internal/model"
)

func reviewPages() []model.Page {
	return []model.Page{
		{PageNumber: 1, Category: model.CategoryHistory},
		{PageNumber: 2, Category: model.CategoryUnclassified},
		{PageNumber: 3, Category: model.CategoryBill},
	}
}

func reviewRecords() []*model.PatientRecord {
	return []*model.PatientRecord{
		{
			HistoryPages:      []int{1},
			BillPages:         []int{3},
			UnclassifiedPages: []int{2},
			Issues:            []string{"missing identity pages"},
		},
	}
}

func TestTerminalCorrector_RelabelAndProceed(t *testing.T) {
	input := "2 identity\n\ny\n"
	var out bytes.Buffer
	c := NewTerminalCorrector(strings.NewReader(input), &out)

	correction, err := c.Review(context.Background(), reviewPages(), reviewRecords(), []string{"HC_1_UN_941000031499323"})
	if err != nil {
		t.Fatal(err)
	}
	if !correction.Proceed {
		t.Error("expected proceed")
	}
	if len(correction.Pages) != 3 {
		t.Fatalf("expected corrected pages, got %d", len(correction.Pages))
	}
	if correction.Pages[1].Category != model.CategoryIdentity {
		t.Errorf("page 2 = %s, want identity", correction.Pages[1].Category)
	}
	if !strings.Contains(out.String(), "missing identity pages") {
		t.Error("issues not shown to the reviewer")
	}
}

func TestTerminalCorrector_Abort(t *testing.T) {
	input := "\nn\n"
	var out bytes.Buffer
	c := NewTerminalCorrector(strings.NewReader(input), &out)

	correction, err := c.Review(context.Background(), reviewPages(), reviewRecords(), []string{"HC_1_UN_941000031499323"})
	if err != nil {
		t.Fatal(err)
	}
	if correction.Proceed {
		t.Error("expected abort")
	}
	if correction.Pages != nil {
		t.Error("no corrections should be reported when nothing changed")
	}
}

func TestTerminalCorrector_BadInputIsRetried(t *testing.T) {
	input := "garbage\n99 identity\n2 facturas\n2 identity\n\ny\n"
	var out bytes.Buffer
	c := NewTerminalCorrector(strings.NewReader(input), &out)

	correction, err := c.Review(context.Background(), reviewPages(), reviewRecords(), []string{"HC_1_UN_941000031499323"})
	if err != nil {
		t.Fatal(err)
	}
	if correction.Pages[1].Category != model.CategoryIdentity {
		t.Errorf("page 2 = %s, want identity", correction.Pages[1].Category)
	}
	for _, want := range []string{"out of range", "unknown category"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected message containing %q", want)
		}
	}
}
