package checkpoint

import (
	"fmt"
	"math"

	"github.com/born-ml/antorch/internal/tensor"
	"google.golang.org/protobuf/encoding/protowire"
)

// Body field numbers.
const (
	fieldStep    protowire.Number = 1
	fieldLoss    protowire.Number = 2
	fieldTensors protowire.Number = 3

	fieldTensorName  protowire.Number = 1
	fieldTensorShape protowire.Number = 2
	fieldTensorData  protowire.Number = 3
)

// marshalBody encodes c. Entries must be sorted and validated.
func marshalBody(c *Checkpoint) []byte {
	var b []byte
	if c.Step != 0 {
		b = protowire.AppendTag(b, fieldStep, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.Step))
	}
	if c.Loss != 0 {
		b = protowire.AppendTag(b, fieldLoss, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(c.Loss))
	}
	for _, e := range c.Tensors {
		b = protowire.AppendTag(b, fieldTensors, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalTensor(e))
	}
	return b
}

func marshalTensor(e Entry) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldTensorName, protowire.BytesType)
	b = protowire.AppendString(b, e.Name)

	if shape := e.Array.Shape(); len(shape) > 0 {
		var packed []byte
		for _, d := range shape {
			packed = protowire.AppendVarint(packed, uint64(d))
		}
		b = protowire.AppendTag(b, fieldTensorShape, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}

	data := e.Array.Data()
	packed := make([]byte, 0, 4*len(data))
	for _, v := range data {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	b = protowire.AppendTag(b, fieldTensorData, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// unmarshalBody decodes a checkpoint body. Unknown fields are skipped.
func unmarshalBody(b []byte) (*Checkpoint, error) {
	c := &Checkpoint{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("tag: %v", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldStep && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, malformed("step: %v", protowire.ParseError(n))
			}
			c.Step = int64(v)
			b = b[n:]
		case num == fieldLoss && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, malformed("loss: %v", protowire.ParseError(n))
			}
			c.Loss = math.Float64frombits(v)
			b = b[n:]
		case num == fieldTensors && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, malformed("tensor %d: %v", len(c.Tensors), protowire.ParseError(n))
			}
			if len(c.Tensors) == MaxTensorCount {
				return nil, &ValidationError{Err: ErrTooManyTensors, Details: fmt.Sprintf("more than %d", MaxTensorCount)}
			}
			e, err := unmarshalTensor(v)
			if err != nil {
				return nil, fmt.Errorf("tensor %d: %w", len(c.Tensors), err)
			}
			c.Tensors = append(c.Tensors, e)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, malformed("field %d: %v", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return c, nil
}

func unmarshalTensor(b []byte) (Entry, error) {
	var (
		name  string
		shape tensor.Shape
		data  []float32
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Entry{}, malformed("tag: %v", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Entry{}, malformed("field %d: %v", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return Entry{}, malformed("field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldTensorName:
			name = string(v)
		case fieldTensorShape:
			for len(v) > 0 {
				d, n := protowire.ConsumeVarint(v)
				if n < 0 {
					return Entry{}, malformed("shape: %v", protowire.ParseError(n))
				}
				if d == 0 || d > math.MaxInt32 {
					return Entry{}, malformed("shape: dimension %d", d)
				}
				shape = append(shape, int(d))
				v = v[n:]
			}
		case fieldTensorData:
			if len(v)%4 != 0 {
				return Entry{}, malformed("data: %d bytes is not a multiple of 4", len(v))
			}
			data = make([]float32, 0, len(v)/4)
			for len(v) > 0 {
				bits, n := protowire.ConsumeFixed32(v)
				if n < 0 {
					return Entry{}, malformed("data: %v", protowire.ParseError(n))
				}
				data = append(data, math.Float32frombits(bits))
				v = v[n:]
			}
		}
	}

	if shape == nil {
		shape = tensor.Shape{}
	}
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		return Entry{}, malformed("%q: %v", name, err)
	}
	return Entry{Name: name, Array: a}, nil
}
