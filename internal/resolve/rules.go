package resolve

import "github.com/rcastell/legajo/internal/model"

// Phase 1 rules (A-G) fill interior unclassified holes between recognized
// anchors, following the document-order convention that an identity page
// precedes its bills within a patient's run.

// ruleA: HISTORY HISTORY ? BILL -> the hole is the identity page
func ruleA(b *Buffer, i int) (int, bool) {
	if i+3 < len(b.pages) &&
		b.is(i, model.CategoryHistory) &&
		b.is(i+1, model.CategoryHistory) &&
		b.isUnclassified(i+2) &&
		b.is(i+3, model.CategoryBill) {
		b.set(i+2, model.CategoryIdentity)
		return i + 4, true
	}
	return 0, false
}

// ruleB: HISTORY HISTORY ? ? HISTORY -> identity then bill fill the holes
func ruleB(b *Buffer, i int) (int, bool) {
	if i+4 < len(b.pages) &&
		b.is(i, model.CategoryHistory) &&
		b.is(i+1, model.CategoryHistory) &&
		b.isUnclassified(i+2) &&
		b.isUnclassified(i+3) &&
		b.is(i+4, model.CategoryHistory) {
		b.set(i+2, model.CategoryIdentity)
		b.set(i+3, model.CategoryBill)
		return i + 4, true
	}
	return 0, false
}

// ruleC: IDENTITY ? HISTORY -> the hole is the bill before the next patient
func ruleC(b *Buffer, i int) (int, bool) {
	if i+2 < len(b.pages) &&
		b.is(i, model.CategoryIdentity) &&
		b.isUnclassified(i+1) &&
		b.is(i+2, model.CategoryHistory) {
		b.set(i+1, model.CategoryBill)
		return i + 2, true
	}
	return 0, false
}

// ruleD: HISTORY HISTORY ? IDENTITY BILL -> the hole is the identity page
// and the page previously read as identity is a first bill
func ruleD(b *Buffer, i int) (int, bool) {
	if i+4 < len(b.pages) &&
		b.is(i, model.CategoryHistory) &&
		b.is(i+1, model.CategoryHistory) &&
		b.isUnclassified(i+2) &&
		b.is(i+3, model.CategoryIdentity) &&
		b.is(i+4, model.CategoryBill) {
		b.set(i+2, model.CategoryIdentity)
		b.set(i+3, model.CategoryBill)
		return i + 4, true
	}
	return 0, false
}

// ruleE: HISTORY HISTORY ? IDENTITY at the end of the sequence or right
// before the next patient's history
func ruleE(b *Buffer, i int) (int, bool) {
	if i+3 < len(b.pages) &&
		b.is(i, model.CategoryHistory) &&
		b.is(i+1, model.CategoryHistory) &&
		b.isUnclassified(i+2) &&
		b.is(i+3, model.CategoryIdentity) &&
		(i+4 >= len(b.pages) || b.is(i+4, model.CategoryHistory)) {
		b.set(i+2, model.CategoryIdentity)
		b.set(i+3, model.CategoryBill)
		return i + 3, true
	}
	return 0, false
}

// ruleF: IDENTITY ? BILL -> the hole is a first bill page
func ruleF(b *Buffer, i int) (int, bool) {
	if i+2 < len(b.pages) &&
		b.is(i, model.CategoryIdentity) &&
		b.isUnclassified(i+1) &&
		b.is(i+2, model.CategoryBill) {
		b.set(i+1, model.CategoryBill)
		return i + 2, true
	}
	return 0, false
}

// ruleG: BILL ? HISTORY -> the hole is a trailing bill page
func ruleG(b *Buffer, i int) (int, bool) {
	if i+2 < len(b.pages) &&
		b.is(i, model.CategoryBill) &&
		b.isUnclassified(i+1) &&
		b.is(i+2, model.CategoryHistory) {
		b.set(i+1, model.CategoryBill)
		return i + 2, true
	}
	return 0, false
}

// Phase 2.

// ruleH fixes the swapped ordering HISTORY BILL IDENTITY -> HISTORY
// IDENTITY BILL, anchored on the history page at i-1
func ruleH(b *Buffer, i int) (int, bool) {
	if b.is(i-1, model.CategoryHistory) &&
		b.is(i, model.CategoryBill) &&
		b.is(i+1, model.CategoryIdentity) {
		b.set(i, model.CategoryIdentity)
		b.set(i+1, model.CategoryBill)
		return i + 2, true
	}
	return 0, false
}

// Phase 3.

// ruleI enforces at most one identity page per patient run: a second
// consecutive identity page after a recent history page is almost always
// a misread bill. The window is consumed even when no history page
// precedes, so the pair is not revisited.
func ruleI(b *Buffer, i int) (int, bool) {
	if i+1 < len(b.pages) &&
		b.is(i, model.CategoryIdentity) &&
		b.is(i+1, model.CategoryIdentity) {
		if b.historyWithin(i, 3) {
			b.set(i+1, model.CategoryBill)
		}
		return i + 2, true
	}
	return 0, false
}

// Phase 4.

// ruleJ: same intent as ruleI over the wider IDENTITY BILL IDENTITY
// window; the trailing identity page becomes a bill
func ruleJ(b *Buffer, i int) (int, bool) {
	if i+2 < len(b.pages) &&
		b.is(i, model.CategoryIdentity) &&
		b.is(i+1, model.CategoryBill) &&
		b.is(i+2, model.CategoryIdentity) {
		if b.historyWithin(i, 3) {
			b.set(i+2, model.CategoryBill)
		}
		return i + 2, true
	}
	return 0, false
}
