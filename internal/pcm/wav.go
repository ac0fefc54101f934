package pcm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/cwbudde/wav"
)

// EncodeWAV serializes b as a standard RIFF/WAVE container. This is the
// concrete WAV path of the codec collaborator; other container formats
// (MP3/AAC) are outside this package's scope and are left to an external
// codec implementation.
func EncodeWAV(b Buffer) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("pcm: encode wav: %w", err)
	}

	var buf bytes.Buffer
	sw := &seekBuffer{buf: &buf}

	enc := wav.NewEncoder(sw, b.SampleRate, 16, b.ChannelCount, 1)

	intData := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		intData[i] = int(s)
	}

	intBuf := &goaudio.IntBuffer{
		Data:           intData,
		Format:         &goaudio.Format{SampleRate: b.SampleRate, NumChannels: b.ChannelCount},
		SourceBitDepth: 16,
	}

	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("pcm: writing wav pcm: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("pcm: closing wav encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeWAV parses a RIFF/WAVE byte slice into a canonical Buffer,
// resampling/up-mixing if the source format differs from the canonical
// one.
func DecodeWAV(data []byte) (Buffer, error) {
	if len(data) == 0 {
		return Buffer{}, fmt.Errorf("pcm: empty wav input")
	}

	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, fmt.Errorf("pcm: invalid wav file")
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("pcm: reading wav pcm: %w", err)
	}

	samples := make([]int16, len(pcmBuf.Data))
	for i, v := range pcmBuf.Data {
		samples[i] = clampInt16(float64(v))
	}

	src := Buffer{
		Samples:      samples,
		SampleRate:   int(dec.SampleRate),
		ChannelCount: int(dec.NumChans),
	}

	return Canonicalize(src, DefaultSampleRate, DefaultChannels), nil
}

// seekBuffer adapts a bytes.Buffer to io.WriteSeeker, as wav.NewEncoder
// requires seek support for its header backpatch on Close.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0:
		newPos = int(offset)
	case 1:
		newPos = s.pos + int(offset)
	case 2:
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("pcm: seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}

// StreamingWAVHeader writes a 44-byte WAV header with unknown-length
// markers (0xFFFFFFFF) suitable for chunked HTTP streaming, matching the
// streaming-header convention, generalized to the
// canonical sample rate/channel count.
func StreamingWAVHeader(buf *bytes.Buffer, sampleRate, channels int) {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 0xFFFFFFFF)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], 0xFFFFFFFF)

	buf.Write(hdr[:])
}

// WritePCM16 writes samples to w as interleaved little-endian int16s,
// the raw payload that follows a StreamingWAVHeader over the wire.
func WritePCM16(w io.Writer, samples []int16) (int, error) {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return w.Write(raw)
}
