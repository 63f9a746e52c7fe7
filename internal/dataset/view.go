// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

// View is indexed read access to a subsequence of a Dataset. The analytics
// engine reads through it in tight loops, so implementations stay allocation
// free: a view never copies Records, it only holds indices into the parent
// snapshot.
type View interface {
	// Len returns the number of records visible through the view.
	Len() int

	// Record returns the i-th visible record. The pointer aliases the
	// snapshot's backing array; callers must treat it as read-only.
	Record(i int) *Record

	// Dataset returns the snapshot the view reads from.
	Dataset() *Dataset
}

// fullView exposes a whole snapshot unchanged. The identity filter returns
// one of these, preserving content and order.
type fullView struct {
	ds *Dataset
}

// NewView wraps a snapshot in a View covering every record.
func NewView(ds *Dataset) View {
	return &fullView{ds: ds}
}

func (v *fullView) Len() int { return len(v.ds.Records) }

func (v *fullView) Record(i int) *Record { return &v.ds.Records[i] }

func (v *fullView) Dataset() *Dataset { return v.ds }

// subView exposes the records selected by an index list, in index order.
type subView struct {
	ds      *Dataset
	indices []int
}

// NewSubView builds a View over the given record indices. Indices must be
// valid positions in ds.Records; the filter engine produces them in
// ascending order so views preserve dataset order.
func NewSubView(ds *Dataset, indices []int) View {
	return &subView{ds: ds, indices: indices}
}

func (v *subView) Len() int { return len(v.indices) }

func (v *subView) Record(i int) *Record { return &v.ds.Records[v.indices[i]] }

func (v *subView) Dataset() *Dataset { return v.ds }
