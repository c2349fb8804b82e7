package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

var defaultToneFormat = wavFormat{SampleRate: 44100, Channels: 1, BitDepth: 16}

// defaultTone synthesizes one second of a two-pitch beep pattern (S16LE mono),
// looped by the player for the classic alarm cadence.
func defaultTone() []byte {
	const (
		rate     = 44100
		freqHigh = 880.0
		freqLow  = 660.0
	)
	buf := make([]byte, 0, rate*2)
	sample := func(freq float64, i int) int16 {
		v := math.Sin(2 * math.Pi * freq * float64(i) / rate)
		return int16(v * 0.6 * math.MaxInt16)
	}
	for i := 0; i < rate; i++ {
		freq := freqHigh
		if (i/(rate/4))%2 == 1 {
			freq = freqLow
		}
		s := sample(freq, i)
		buf = append(buf, byte(s), byte(s>>8))
	}
	return buf
}

// parseWAV extracts the format and raw sample data from a RIFF/WAVE file.
func parseWAV(data []byte) (wavFormat, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavFormat{}, nil, errors.New("not a WAV file")
	}

	r := bytes.NewReader(data[12:])
	var format wavFormat
	haveFmt := false

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return wavFormat{}, nil, err
		}
		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return wavFormat{}, nil, err
		}

		switch string(chunkID[:]) {
		case "fmt ":
			var hdr struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
				return wavFormat{}, nil, err
			}
			format.Channels = int(hdr.NumChannels)
			format.SampleRate = int(hdr.SampleRate)
			format.BitDepth = int(hdr.BitsPerSample)
			haveFmt = true
			if rest := int64(chunkSize) - 16; rest > 0 {
				if _, err := r.Seek(rest, io.SeekCurrent); err != nil {
					return wavFormat{}, nil, err
				}
			}
		case "data":
			if !haveFmt {
				return wavFormat{}, nil, errors.New("WAV data chunk before fmt chunk")
			}
			samples := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, samples); err != nil {
				return wavFormat{}, nil, err
			}
			return format, samples, nil
		default:
			if _, err := r.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return wavFormat{}, nil, err
			}
		}
	}

	return wavFormat{}, nil, errors.New("WAV file has no data chunk")
}
