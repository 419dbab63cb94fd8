package game

import (
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Outcomes is the number of distinct roulette outcomes (0-36).
const Outcomes = 37

// WinningNumber derives a round outcome from its closing context: the last
// bettor of the round, the resolution time and the ledger slot counter. The
// three inputs are concatenated as fixed-width little-endian words and hashed
// with SHA-256; the first eight digest bytes, read little-endian, are reduced
// mod 37.
//
// No single bettor can choose all three inputs after betting closes, but this
// is a heuristic anti-manipulation scheme, not a verifiable randomness beacon.
func WinningNumber(lastBettor int64, resolvedAt time.Time, slot uint64) uint8 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(lastBettor))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(resolvedAt.Unix()))
	binary.LittleEndian.PutUint64(buf[16:24], slot)

	digest := sha256.Sum256(buf[:])
	return uint8(binary.LittleEndian.Uint64(digest[:8]) % Outcomes)
}

// SlotSource supplies the ledger network's slot counter at resolution time.
type SlotSource interface {
	CurrentSlot() uint64
}

// TimeSlotSource derives a monotonic slot counter from wall time, a stand-in
// for environments without a real chain slot feed.
type TimeSlotSource struct {
	Genesis      time.Time
	SlotDuration time.Duration
}

// NewTimeSlotSource returns a slot source ticking every 400ms since the Unix
// epoch, matching the cadence of the ledger the scheme was designed around.
func NewTimeSlotSource() TimeSlotSource {
	return TimeSlotSource{
		Genesis:      time.Unix(0, 0),
		SlotDuration: 400 * time.Millisecond,
	}
}

func (s TimeSlotSource) CurrentSlot() uint64 {
	elapsed := time.Since(s.Genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / s.SlotDuration)
}
