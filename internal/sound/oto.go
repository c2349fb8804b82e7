package sound

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/wakephrase/wakephrase/internal/logger"
)

// The audio context is process-global and can only be created once, so the
// first tone's format wins. The default tone's format is used unless a WAV
// file was opened first.
var (
	audioCtx     *oto.Context
	audioCtxOnce sync.Once
	audioCtxErr  error
)

func initAudioContext(sampleRate, channels int) {
	audioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			audioCtxErr = err
			return
		}
		<-ready
		audioCtx = ctx
		logger.Debug("Audio context initialized", "sampleRate", sampleRate, "channels", channels)
	})
}

type otoPlayer struct {
	player *oto.Player
}

// Open creates a Player for the given tone reference: a WAV file path, or the
// built-in alarm tone when empty. This is the OpenFunc used in production.
func Open(toneRef string) (Player, error) {
	format, data, err := loadTone(toneRef)
	if err != nil {
		return nil, err
	}

	initAudioContext(format.SampleRate, format.Channels)
	if audioCtxErr != nil {
		return nil, audioCtxErr
	}
	if audioCtx == nil {
		return nil, errors.New("audio context not ready")
	}

	return &otoPlayer{player: audioCtx.NewPlayer(newLoopReader(data))}, nil
}

func loadTone(toneRef string) (wavFormat, []byte, error) {
	if toneRef == "" {
		return defaultToneFormat, defaultTone(), nil
	}
	raw, err := os.ReadFile(toneRef)
	if err != nil {
		return wavFormat{}, nil, err
	}
	return parseWAV(raw)
}

func (p *otoPlayer) Play() error {
	p.player.Play()
	return nil
}

func (p *otoPlayer) Stop() error {
	return p.player.Close()
}

// loopReader replays its data forever; the alarm tone loops until stopped.
type loopReader struct {
	data []byte
	pos  int
}

func newLoopReader(data []byte) *loopReader {
	return &loopReader{data: data}
}

func (r *loopReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos = (r.pos + n) % len(r.data)
	return n, nil
}
