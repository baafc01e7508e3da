// internal/app/system/paging/paging.go
package paging

// Link is one entry in a pager. Gap entries render as an ellipsis.
type Link struct {
	Number  int
	Current bool
	Gap     bool
}

// Links returns the page numbers to render for a pager: the first and
// last page, the current page and span pages around it, with gaps where
// numbers are skipped. Returns nil when there is at most one page.
func Links(current, total, span int) []Link {
	if total <= 1 {
		return nil
	}
	if span < 0 {
		span = 0
	}
	lo := max(1, current-span)
	hi := min(total, current+span)

	var out []Link
	add := func(n int) {
		out = append(out, Link{Number: n, Current: n == current})
	}

	if lo > 1 {
		add(1)
		if lo > 2 {
			out = append(out, Link{Gap: true})
		}
	}
	for n := lo; n <= hi; n++ {
		add(n)
	}
	if hi < total {
		if hi < total-1 {
			out = append(out, Link{Gap: true})
		}
		add(total)
	}
	return out
}

// Range holds the 1-based display range of a page ("showing 11-20").
type Range struct {
	Start int // 0 if no results
	End   int // 0 if no results
}

// ComputeRange calculates the display range for a page of shown rows.
func ComputeRange(page, perPage, shown int) Range {
	if shown <= 0 {
		return Range{}
	}
	if page < 1 {
		page = 1
	}
	start := (page-1)*perPage + 1
	return Range{Start: start, End: start + shown - 1}
}
