package internal

import "fmt"

// Transferable verifies that v is safe to hand to the processing runtime:
// it must be built only from owned value shapes, with no references back
// into deserializer state or its buffers. The adapter checks its outputs
// against this contract before they leave the package.
func Transferable(v any) error {
	switch tv := v.(type) {
	case nil:
		return nil
	case bool, string, int32, int64, float32, float64, []byte:
		return nil
	case []any:
		for _, e := range tv {
			if err := Transferable(e); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, e := range tv {
			if err := Transferable(e); err != nil {
				return err
			}
		}
		return nil
	case *Record:
		for _, e := range tv.Values() {
			if err := Transferable(e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value of type %T is not transferable", v)
	}
}
