package resolve

import (
	"reflect"
	"testing"

	"github.com/rcastell/legajo/internal/model"
)

const (
	his = model.CategoryHistory
	ide = model.CategoryIdentity
	bil = model.CategoryBill
	unc = model.CategoryUnclassified
)

func makePages(cats ...model.Category) []model.Page {
	pages := make([]model.Page, len(cats))
	for i, c := range cats {
		pages[i] = model.Page{PageNumber: i + 1, Category: c}
		if c != unc {
			pages[i].MatchedIndicators = []string{"x"}
			pages[i].Confidence = 0.5
		}
	}
	return pages
}

func categoriesOf(pages []model.Page) []model.Category {
	cats := make([]model.Category, len(pages))
	for i, p := range pages {
		cats[i] = p.Category
	}
	return cats
}

func assertCategories(t *testing.T, got []model.Page, want ...model.Category) {
	t.Helper()
	if !reflect.DeepEqual(categoriesOf(got), want) {
		t.Errorf("categories = %v, want %v", categoriesOf(got), want)
	}
}

func TestRuleA_FillsIdentityHole(t *testing.T) {
	r := NewResolver()

	out, applied := r.Resolve(makePages(his, his, unc, bil))

	if len(out) != 4 {
		t.Fatalf("length changed: %d", len(out))
	}
	assertCategories(t, out, his, his, ide, bil)

	if len(applied) == 0 || applied[0].Rule != "A" {
		t.Fatalf("expected rule A in applied log, got %+v", applied)
	}
	if len(applied[0].Rewrites) != 1 || applied[0].Rewrites[0].PageNumber != 3 {
		t.Errorf("expected rewrite of page 3, got %+v", applied[0].Rewrites)
	}
}

func TestRuleB_FillsDoubleHole(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, his, unc, unc, his))

	assertCategories(t, out, his, his, ide, bil, his)
}

func TestRuleC_BillBeforeNextPatient(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(ide, unc, his))

	assertCategories(t, out, ide, bil, his)
}

func TestRuleD_IdentityShiftsToBill(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, his, unc, ide, bil))

	assertCategories(t, out, his, his, ide, bil, bil)
}

func TestRuleE_AtSequenceEnd(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, his, unc, ide))

	assertCategories(t, out, his, his, ide, bil)
}

func TestRuleE_BeforeNextHistory(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, his, unc, ide, his))

	assertCategories(t, out, his, his, ide, bil, his)
}

func TestRuleF_MultiPageBill(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(ide, unc, bil))

	assertCategories(t, out, ide, bil, bil)
}

func TestRuleG_TrailingBill(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(bil, unc, his))

	assertCategories(t, out, bil, bil, his)
}

func TestRuleH_SwapsBillIdentity(t *testing.T) {
	r := NewResolver()

	out, applied := r.Resolve(makePages(his, bil, ide))

	assertCategories(t, out, his, ide, bil)

	var names []string
	for _, a := range applied {
		names = append(names, a.Rule)
	}
	if !reflect.DeepEqual(names, []string{"H"}) {
		t.Errorf("applied rules = %v, want [H]", names)
	}
}

func TestRuleI_DedupsSecondIdentity(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, ide, ide))

	assertCategories(t, out, his, ide, bil)
}

func TestRuleI_NoHistoryLeavesPair(t *testing.T) {
	r := NewResolver()

	out, applied := r.Resolve(makePages(ide, ide))

	assertCategories(t, out, ide, ide)

	// The window is still consumed: rule I fires with no rewrites
	if len(applied) != 1 || applied[0].Rule != "I" || len(applied[0].Rewrites) != 0 {
		t.Errorf("expected rule I with no rewrites, got %+v", applied)
	}
}

func TestRuleI_HistoryOutsideLookback(t *testing.T) {
	r := NewResolver()

	// History is 4 positions before the pair; the lookback window is 3
	out, _ := r.Resolve(makePages(his, bil, bil, bil, ide, ide))

	if out[5].Category != ide {
		t.Errorf("expected trailing identity untouched, got %s", out[5].Category)
	}
}

func TestRuleJ_WiderWindow(t *testing.T) {
	r := NewResolver()

	out, _ := r.Resolve(makePages(his, ide, bil, ide))

	assertCategories(t, out, his, ide, bil, bil)
}

func TestResolve_LeavesUnmatchedAlone(t *testing.T) {
	r := NewResolver()

	out, applied := r.Resolve(makePages(unc, unc, unc))

	assertCategories(t, out, unc, unc, unc)
	if len(applied) != 0 {
		t.Errorf("expected no applied rules, got %+v", applied)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver()
	in := makePages(his, his, unc, bil, his, bil, ide, his, ide, ide)

	first, _ := r.Resolve(in)
	second, _ := r.Resolve(in)

	if !reflect.DeepEqual(first, second) {
		t.Error("resolve is not deterministic")
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	r := NewResolver()
	in := makePages(his, his, unc, bil)
	before := categoriesOf(in)

	r.Resolve(in)

	if !reflect.DeepEqual(categoriesOf(in), before) {
		t.Error("input sequence was mutated")
	}
}

func TestResolve_RewriteClearsIndicators(t *testing.T) {
	r := NewResolver()
	in := makePages(his, bil, ide)

	out, _ := r.Resolve(in)

	// Pages rewritten by rule H carry no stale indicators
	for _, i := range []int{1, 2} {
		if len(out[i].MatchedIndicators) != 0 || out[i].Confidence != 0 {
			t.Errorf("page %d kept stale indicators after rewrite: %+v", out[i].PageNumber, out[i])
		}
	}
}

func TestResolve_PreservesPageNumbers(t *testing.T) {
	r := NewResolver()
	in := makePages(his, his, unc, unc, his, unc, bil)

	out, _ := r.Resolve(in)

	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	for i := range out {
		if out[i].PageNumber != in[i].PageNumber {
			t.Errorf("page number at %d changed: %d -> %d", i, in[i].PageNumber, out[i].PageNumber)
		}
	}
}

func TestResolve_EmptyAndSingle(t *testing.T) {
	r := NewResolver()

	if out, _ := r.Resolve(nil); len(out) != 0 {
		t.Errorf("expected empty output for empty input")
	}
	out, _ := r.Resolve(makePages(unc))
	assertCategories(t, out, unc)
}
