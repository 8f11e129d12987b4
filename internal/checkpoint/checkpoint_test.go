package checkpoint_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/checkpoint"
	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func mustArray(t *testing.T, data []float32, shape ...int) *tensor.Array {
	t.Helper()
	a, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return a
}

func sample(t *testing.T) *checkpoint.Checkpoint {
	t.Helper()
	return &checkpoint.Checkpoint{
		Step: 42,
		Loss: 0.125,
		Tensors: []checkpoint.Entry{
			{Name: "layer.weight", Array: mustArray(t, []float32{1, -2.5, 3e-8, 4}, 2, 2)},
			{Name: "bias", Array: mustArray(t, []float32{0.5, -0.5, 7}, 3)},
			{Name: "scale", Array: mustArray(t, []float32{9})},
		},
	}
}

func encode(t *testing.T, c *checkpoint.Checkpoint) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, checkpoint.Save(&buf, c))
	return buf.Bytes()
}

// assemble frames a raw body with a header and its checksum.
func assemble(body []byte, version uint32) []byte {
	buf := []byte(checkpoint.MagicBytes)
	buf = binary.LittleEndian.AppendUint32(buf, version)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(body)))
	buf = append(buf, body...)
	sum := checkpoint.ComputeChecksum(body)
	return append(buf, sum[:]...)
}

func TestRoundTrip(t *testing.T) {
	in := sample(t)
	out, err := checkpoint.Load(bytes.NewReader(encode(t, in)))
	require.NoError(t, err)

	assert.Equal(t, int64(42), out.Step)
	assert.Equal(t, 0.125, out.Loss)

	require.Len(t, out.Tensors, 3)
	names := []string{out.Tensors[0].Name, out.Tensors[1].Name, out.Tensors[2].Name}
	assert.Equal(t, []string{"bias", "layer.weight", "scale"}, names)

	for _, want := range in.Tensors {
		got, ok := out.Lookup(want.Name)
		require.True(t, ok, want.Name)
		assert.Equal(t, want.Array.Shape(), got.Shape(), want.Name)
		assert.Equal(t, want.Array.Data(), got.Data(), want.Name)
	}

	// Save does not reorder the caller's entries.
	assert.Equal(t, "layer.weight", in.Tensors[0].Name)
}

func TestRoundTrip_SpecialValues(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())
	in := &checkpoint.Checkpoint{
		Step: -1,
		Loss: math.Inf(-1),
		Tensors: []checkpoint.Entry{
			{Name: "x", Array: mustArray(t, []float32{inf, -inf, nan, -0.0})},
		},
	}

	out, err := checkpoint.Load(bytes.NewReader(encode(t, in)))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), out.Step)
	assert.True(t, math.IsInf(out.Loss, -1))

	data := out.Tensors[0].Array.Data()
	assert.True(t, math.IsInf(float64(data[0]), 1))
	assert.True(t, math.IsInf(float64(data[1]), -1))
	assert.True(t, math.IsNaN(float64(data[2])))
}

func TestRoundTrip_Empty(t *testing.T) {
	out, err := checkpoint.Load(bytes.NewReader(encode(t, &checkpoint.Checkpoint{})))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Step)
	assert.Empty(t, out.Tensors)
}

func TestSave_Layout(t *testing.T) {
	buf := encode(t, sample(t))

	assert.Equal(t, "ANTC", string(buf[:4]))
	assert.Equal(t, uint32(checkpoint.FormatVersion), binary.LittleEndian.Uint32(buf[4:8]))

	bodyLen := binary.LittleEndian.Uint64(buf[8:16])
	require.Equal(t, uint64(len(buf)-checkpoint.FixedHeaderSize-checkpoint.ChecksumSize), bodyLen)

	body := buf[checkpoint.FixedHeaderSize : checkpoint.FixedHeaderSize+int(bodyLen)]
	var stored [checkpoint.ChecksumSize]byte
	copy(stored[:], buf[len(buf)-checkpoint.ChecksumSize:])
	assert.NoError(t, checkpoint.ValidateChecksum(checkpoint.ComputeChecksum(body), stored))
}

func TestSave_Deterministic(t *testing.T) {
	state := map[string]*tensor.Array{
		"b": mustArray(t, []float32{1, 2}),
		"a": mustArray(t, []float32{3}),
		"c": mustArray(t, []float32{4, 5, 6}, 3, 1),
	}

	first := encode(t, checkpoint.FromStateDict(7, 0.5, state))
	for range 5 {
		assert.Equal(t, first, encode(t, checkpoint.FromStateDict(7, 0.5, state)))
	}
}

func TestLoad_Errors(t *testing.T) {
	good := encode(t, sample(t))

	corrupt := bytes.Clone(good)
	corrupt[checkpoint.FixedHeaderSize+3] ^= 0xFF

	badMagic := bytes.Clone(good)
	copy(badMagic, "BORN")

	badSum := bytes.Clone(good)
	badSum[len(badSum)-1] ^= 0x01

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"corrupted body", corrupt, checkpoint.ErrChecksumMismatch},
		{"corrupted checksum", badSum, checkpoint.ErrChecksumMismatch},
		{"bad magic", badMagic, checkpoint.ErrInvalidMagic},
		{"future version", assemble(nil, checkpoint.FormatVersion+1), checkpoint.ErrUnsupportedVersion},
		{"truncated header", good[:10], io.ErrUnexpectedEOF},
		{"truncated body", good[:checkpoint.FixedHeaderSize+5], io.ErrUnexpectedEOF},
		{"truncated checksum", good[:len(good)-5], io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkpoint.Load(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
			if errors.Is(tt.want, io.ErrUnexpectedEOF) {
				assert.ErrorIs(t, err, checkpoint.ErrMalformed)
			}
		})
	}
}

func TestLoad_MalformedBody(t *testing.T) {
	tensorMsg := func(name string, shape []uint64, data []float32) []byte {
		var b []byte
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, name)
		var packed []byte
		for _, d := range shape {
			packed = protowire.AppendVarint(packed, d)
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
		packed = nil
		for _, v := range data {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		return protowire.AppendBytes(b, packed)
	}
	withTensor := func(msg []byte) []byte {
		b := protowire.AppendTag(nil, 3, protowire.BytesType)
		return protowire.AppendBytes(b, msg)
	}

	tests := []struct {
		name string
		body []byte
		want error
	}{
		{"data does not match shape", withTensor(tensorMsg("x", []uint64{2, 2}, []float32{1, 2, 3})), checkpoint.ErrMalformed},
		{"zero dimension", withTensor(tensorMsg("x", []uint64{0}, nil)), checkpoint.ErrMalformed},
		{"truncated tag", []byte{0x80}, checkpoint.ErrMalformed},
		{"truncated tensor", protowire.AppendTag(nil, 3, protowire.BytesType), checkpoint.ErrMalformed},
		{"invalid name", withTensor(tensorMsg("../x", []uint64{1}, []float32{1})), checkpoint.ErrInvalidTensorName},
		{"duplicate name", append(
			withTensor(tensorMsg("x", []uint64{1}, []float32{1})),
			withTensor(tensorMsg("x", []uint64{1}, []float32{2}))...), checkpoint.ErrInvalidTensorName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkpoint.Load(bytes.NewReader(assemble(tt.body, checkpoint.FormatVersion)))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_SkipsUnknownFields(t *testing.T) {
	var body []byte
	body = protowire.AppendTag(body, 9, protowire.VarintType)
	body = protowire.AppendVarint(body, 12345)
	body = protowire.AppendTag(body, 1, protowire.VarintType)
	body = protowire.AppendVarint(body, 3)
	body = protowire.AppendTag(body, 10, protowire.BytesType)
	body = protowire.AppendString(body, "future metadata")

	c, err := checkpoint.Load(bytes.NewReader(assemble(body, checkpoint.FormatVersion)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Step)
}

func TestSave_Validation(t *testing.T) {
	one := mustArray(t, []float32{1})

	tests := []struct {
		name    string
		entries []checkpoint.Entry
		want    error
	}{
		{"empty name", []checkpoint.Entry{{Name: "", Array: one}}, checkpoint.ErrInvalidTensorName},
		{"path separator", []checkpoint.Entry{{Name: "a/b", Array: one}}, checkpoint.ErrInvalidTensorName},
		{"null byte", []checkpoint.Entry{{Name: "a\x00", Array: one}}, checkpoint.ErrInvalidTensorName},
		{"duplicate", []checkpoint.Entry{{Name: "a", Array: one}, {Name: "a", Array: one}}, checkpoint.ErrInvalidTensorName},
		{"nil array", []checkpoint.Entry{{Name: "a"}}, checkpoint.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkpoint.Save(io.Discard, &checkpoint.Checkpoint{Tensors: tt.entries})
			assert.ErrorIs(t, err, tt.want)

			var verr *checkpoint.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateTensorName_TooLong(t *testing.T) {
	err := checkpoint.ValidateTensorName(string(bytes.Repeat([]byte("a"), checkpoint.MaxTensorNameLen+1)))
	assert.ErrorIs(t, err, checkpoint.ErrInvalidTensorName)
	assert.Contains(t, err.Error(), "length 4097")
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.antc")
	require.NoError(t, checkpoint.SaveFile(path, sample(t)))

	c, err := checkpoint.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.Step)
	assert.Len(t, c.Tensors, 3)

	_, err = checkpoint.LoadFile(filepath.Join(t.TempDir(), "missing.antc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStateDictAndLookup(t *testing.T) {
	c := sample(t)
	c = checkpoint.FromStateDict(c.Step, c.Loss, c.StateDict())

	_, ok := c.Lookup("missing")
	assert.False(t, ok)

	a, ok := c.Lookup("scale")
	require.True(t, ok)
	assert.Equal(t, []float32{9}, a.Data())
	assert.Len(t, c.StateDict(), 3)
}

// TestModelRestore saves a model's state dict and restores it into a
// differently initialized model.
func TestModelRestore(t *testing.T) {
	newModel := func(seed uint64) (*autodiff.Graph, *nn.Sequential) {
		g := autodiff.NewGraph(autodiff.Config{Seed: seed})
		return g, nn.NewSequential(nn.NewLinear(2, 4, true, g), nn.NewTanh(), nn.NewLinear(4, 1, true, g))
	}

	g1, src := newModel(1)
	g2, dst := newModel(2)

	var buf bytes.Buffer
	require.NoError(t, checkpoint.Save(&buf, checkpoint.FromStateDict(100, 0.01, src.StateDict())))

	loaded, err := checkpoint.Load(&buf)
	require.NoError(t, err)
	require.NoError(t, dst.LoadStateDict(loaded.StateDict()))

	x1 := g1.Full(0.5, 3, 2)
	x2 := g2.Full(0.5, 3, 2)
	y1, err := src.Forward(x1)
	require.NoError(t, err)
	y2, err := dst.Forward(x2)
	require.NoError(t, err)
	assert.Equal(t, y1.Data().Data(), y2.Data().Data())
}
