package sfx

import (
	"time"

	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// StartSpeaker opens the default audio device and plays the mixer on it.
// Failure leaves the game silent rather than aborting.
func StartSpeaker(m *Mixer, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	format := m.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(50*time.Millisecond)); err != nil {
		logger.Warn("⚠️ Sound disabled", zap.Error(err))
		return false
	}
	speaker.Play(m)
	logger.Info("🔊 Sound cues enabled", zap.Int("sample_rate", int(format.SampleRate)))
	return true
}

// StopSpeaker releases the audio device.
func StopSpeaker() {
	speaker.Clear()
	speaker.Close()
}
