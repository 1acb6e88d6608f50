// Package pipeline chains lazy stream stages that pull one value at a time.
//
//	rows := pipeline.FromSlice(table.Rows())
//	inRange := pipeline.TakeWhile(rows, func(r Row) bool { return r.End <= duration }, nil)
//	written := pipeline.Map(inRange, extract)
//	err := pipeline.ForEach(ctx, written, report)
package pipeline
