package codec

import (
	"encoding/binary"
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/indexed/layerstore"
	"github.com/gogpu/indexed/palette"
)

func sampleStore(kind layerstore.Kind) layerstore.Store {
	s := layerstore.New(kind, 40, 30)
	layerstore.PutRect(s, image.Rect(3, 4, 9, 7), palette.Index{Col: 2})
	s.Put(layerstore.Pixel{X: 39, Y: 29, Lookup: palette.Index{Col: 255, Row: 3}})
	s.Put(layerstore.Pixel{X: 0, Y: 0, Lookup: palette.Index{Col: 7, Row: 1}})
	return s
}

func TestRecordsRoundTrip(t *testing.T) {
	for _, kind := range []layerstore.Kind{layerstore.KindDense, layerstore.KindSparse} {
		t.Run(kind.String(), func(t *testing.T) {
			src := sampleStore(kind)
			data := AppendRecords(nil, src)
			if len(data) != src.Len()*RecordSize {
				t.Fatalf("len = %d, want %d", len(data), src.Len()*RecordSize)
			}

			// Decode into the other kind to check the format is shared.
			other := layerstore.KindSparse
			if kind == layerstore.KindSparse {
				other = layerstore.KindDense
			}
			dst := layerstore.New(other, 40, 30)
			if err := DecodeRecords(data, dst); err != nil {
				t.Fatalf("DecodeRecords: %v", err)
			}
			if !reflect.DeepEqual(dst.Pixels(), src.Pixels()) {
				t.Errorf("decoded pixels differ:\n got %v\nwant %v", dst.Pixels(), src.Pixels())
			}
		})
	}
}

func TestRecordLayout(t *testing.T) {
	s := layerstore.NewSparse(10, 10)
	s.Put(layerstore.Pixel{X: 3, Y: 8, Lookup: palette.Index{Col: 4, Row: 5}})
	got := AppendRecords(nil, s)
	want := []byte{3, 0, 0, 0, 8, 0, 0, 0, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AppendRecords = %v, want %v", got, want)
	}
}

func TestDecodeAnyOrder(t *testing.T) {
	var data []byte
	for _, p := range []layerstore.Pixel{
		{X: 5, Y: 5, Lookup: palette.Index{Col: 2}},
		{X: 1, Y: 0, Lookup: palette.Index{Col: 3}},
		{X: 0, Y: 5, Lookup: palette.Index{Col: 4}},
	} {
		data = binary.LittleEndian.AppendUint32(data, uint32(p.X))
		data = binary.LittleEndian.AppendUint32(data, uint32(p.Y))
		data = append(data, byte(p.Lookup.Col), byte(p.Lookup.Row))
	}
	dst := layerstore.NewDense(8, 8)
	if err := DecodeRecords(data, dst); err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	want := []layerstore.Pixel{
		{X: 1, Y: 0, Lookup: palette.Index{Col: 3}},
		{X: 0, Y: 5, Lookup: palette.Index{Col: 4}},
		{X: 5, Y: 5, Lookup: palette.Index{Col: 2}},
	}
	if got := dst.Pixels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pixels = %v, want %v", got, want)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	outside := binary.LittleEndian.AppendUint32(nil, 9)
	outside = binary.LittleEndian.AppendUint32(outside, 0)
	outside = append(outside, 2, 0)

	negative := binary.LittleEndian.AppendUint32(nil, 0xFFFFFFFF)
	negative = binary.LittleEndian.AppendUint32(negative, 0)
	negative = append(negative, 2, 0)

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", make([]byte, RecordSize+3)},
		{"outside bounds", outside},
		{"negative", negative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := layerstore.NewSparse(8, 8)
			err := DecodeRecords(tt.data, dst)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("err = %v, want ErrCorrupt", err)
			}
			if dst.Len() != 0 {
				t.Errorf("Len = %d after failed decode, want 0", dst.Len())
			}
		})
	}
}

func TestCheckLookups(t *testing.T) {
	pal := palette.MustNewStore(3)
	s := layerstore.NewSparse(4, 4)
	s.Put(layerstore.Pixel{X: 1, Y: 1, Lookup: palette.BackgroundLight})
	if err := CheckLookups(s, pal); err != nil {
		t.Fatalf("CheckLookups: %v", err)
	}
	s.Put(layerstore.Pixel{X: 2, Y: 1, Lookup: palette.Index{Col: 9}})
	if err := CheckLookups(s, pal); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestLayerRoundTrip(t *testing.T) {
	levels := []zstd.EncoderLevel{zstd.SpeedFastest, zstd.SpeedDefault, zstd.SpeedBestCompression}
	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			src := sampleStore(layerstore.KindDense)
			blob, err := EncodeLayer(src, WithLevel(level))
			if err != nil {
				t.Fatalf("EncodeLayer: %v", err)
			}
			if n := binary.LittleEndian.Uint32(blob); int(n) != src.Len() {
				t.Errorf("header count = %d, want %d", n, src.Len())
			}
			dst := layerstore.NewSparse(40, 30)
			if err := DecodeLayer(blob, dst); err != nil {
				t.Fatalf("DecodeLayer: %v", err)
			}
			if !reflect.DeepEqual(dst.Pixels(), src.Pixels()) {
				t.Error("decoded layer differs")
			}
		})
	}
}

func TestEncodeEmptyLayer(t *testing.T) {
	blob, err := EncodeLayer(layerstore.NewDense(4, 4))
	if err != nil {
		t.Fatalf("EncodeLayer: %v", err)
	}
	dst := layerstore.NewDense(4, 4)
	if err := DecodeLayer(blob, dst); err != nil {
		t.Fatalf("DecodeLayer: %v", err)
	}
	if dst.Len() != 0 {
		t.Errorf("Len = %d, want 0", dst.Len())
	}
}

func TestDecodeLayerCorrupt(t *testing.T) {
	good, err := EncodeLayer(sampleStore(layerstore.KindSparse))
	if err != nil {
		t.Fatalf("EncodeLayer: %v", err)
	}
	wrongCount := append([]byte(nil), good...)
	wrongCount[0]++

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 0}},
		{"garbage frame", []byte{1, 0, 0, 0, 0xde, 0xad, 0xbe, 0xef}},
		{"count mismatch", wrongCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeLayer(tt.blob, layerstore.NewSparse(40, 30))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("err = %v, want ErrCorrupt", err)
			}
		})
	}
}
