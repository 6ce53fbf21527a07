package element

import (
	"fmt"
	"iter"

	"github.com/woozymasta/simplemap/internal/coords"
)

// Seq is a lazily produced collection. Items are elements, slices of elements
// or things, or nested sequences. Pulling the sequence drives the work behind
// it; an error item ends it.
type Seq = iter.Seq2[any, error]

// Plural builds elements for each source of a collection.
type Plural func(sources any) Seq

// Pluralize wraps b so it accepts a collection of sources and lazily yields the
// elements built for each source, in order. A sources value of a registered
// type is converted once before iteration.
func (f *Factory) Pluralize(b Builder) Plural {
	return func(sources any) Seq {
		return func(yield func(any, error) bool) {
			converted, _, err := f.norm.Convert(sources)
			if err != nil {
				yield(nil, err)
				return
			}

			var buildErr error
			stopped := false
			isSeq := coords.Each(converted, func(source any) bool {
				elements, err := b.Build(source)
				if err != nil {
					buildErr = err
					return false
				}
				if !yield(elements, nil) {
					stopped = true
					return false
				}
				return true
			})

			switch {
			case stopped:
			case buildErr != nil:
				yield(nil, buildErr)
			case !isSeq:
				yield(nil, &coords.InvalidSourceError{Value: sources, Reason: "expected a collection of sources"})
			}
		}
	}
}

// Collect drains things depth first, in order, into a flat element list.
// Slices, arrays, channels, iter.Seq and Seq values are collections; other
// things are skipped.
func Collect(things ...any) ([]Element, error) {
	var out []Element
	err := collect(things, &out, 0)
	return out, err
}

func collect(thing any, out *[]Element, depth int) error {
	if depth > coords.MaxDepth {
		return fmt.Errorf("things nested deeper than %d levels", coords.MaxDepth)
	}

	switch t := thing.(type) {
	case Element:
		*out = append(*out, t)
	case Seq:
		for item, err := range t {
			if err != nil {
				return err
			}
			if err := collect(item, out, depth+1); err != nil {
				return err
			}
		}
	default:
		var err error
		coords.Each(t, func(item any) bool {
			err = collect(item, out, depth+1)
			return err == nil
		})
		return err
	}
	return nil
}
