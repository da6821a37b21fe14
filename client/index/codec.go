package index

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Kush-Singh-26/kosh-client/client/models"
)

// Codec serializes the entry collection for the session tier.
type Codec interface {
	Encode(entries []models.Entry) (string, error)
	Decode(s string) ([]models.Entry, error)
}

// JSONCodec matches what a browser session store can hold.
type JSONCodec struct{}

func (JSONCodec) Encode(entries []models.Entry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONCodec) Decode(s string) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.Unmarshal([]byte(s), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MsgpackCodec stores zstd-compressed msgpack. Native stores keep arbitrary
// bytes, so the session copy of a large index stays small.
type MsgpackCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewMsgpackCodec() (*MsgpackCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &MsgpackCodec{encoder: encoder, decoder: decoder}, nil
}

// Close releases the zstd encoder and decoder.
func (c *MsgpackCodec) Close() error {
	_ = c.encoder.Close()
	c.decoder.Close()
	return nil
}

func (c *MsgpackCodec) Encode(entries []models.Entry) (string, error) {
	data, err := msgpack.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(c.encoder.EncodeAll(data, nil)), nil
}

func (c *MsgpackCodec) Decode(s string) ([]models.Entry, error) {
	data, err := c.decoder.DecodeAll([]byte(s), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress index: %w", err)
	}
	var entries []models.Entry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
