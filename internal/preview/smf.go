package preview

import (
	"bytes"
	"context"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

const (
	// TicksPerQuarter is the file resolution.
	TicksPerQuarter = 960
	wholeTicks      = 4 * TicksPerQuarter

	DefaultTempo    = 100.0
	DefaultVelocity = 90

	chordChannel = 0
)

// Measure is one bar of the preview: a chord sounding on every note of
// the rhythm. A nil chord renders the measure silent.
type Measure struct {
	Chord  *theory.ChordInfo
	Rhythm []generation.Event
}

// Input describes a preview file.
type Input struct {
	Meter    string
	Tempo    float64
	Velocity uint8
	Measures []Measure
}

// Render writes a two-track Standard MIDI File: a conductor track with
// meter and tempo, and a chord track.
func Render(ctx context.Context, in Input) ([]byte, error) {
	m, err := theory.ParseMeter(in.Meter)
	if err != nil {
		return nil, err
	}
	tempo := in.Tempo
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	velocity := in.Velocity
	if velocity == 0 {
		velocity = DefaultVelocity
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("magda-harmony preview"))
	conductor.Add(0, smf.MetaMeter(uint8(m.Beats), uint8(m.Unit)))
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("add conductor track: %w", err)
	}

	chords, err := renderChords(ctx, m, in.Measures, velocity)
	if err != nil {
		return nil, err
	}
	if err := s.Add(chords); err != nil {
		return nil, fmt.Errorf("add chord track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write midi file: %w", err)
	}
	return buf.Bytes(), nil
}

func renderChords(ctx context.Context, m theory.Meter, measures []Measure, velocity uint8) (smf.Track, error) {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("chords"))

	measureTicks := uint32(wholeTicks * m.Beats / m.Unit)
	var delta uint32
	for i, measure := range measures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys, err := voicing(measure.Chord)
		if err != nil {
			return nil, fmt.Errorf("measure %d: %w", i+1, err)
		}

		var used uint32
		for j, e := range measure.Rhythm {
			d := e.Denominator()
			if d == 0 || wholeTicks%d != 0 {
				return nil, fmt.Errorf("%w: measure %d event %d has unsupported value %d", theory.ErrGeneration, i+1, j+1, e)
			}
			dur := uint32(wholeTicks / d)
			if used+dur > measureTicks {
				return nil, fmt.Errorf("%w: measure %d event %d overruns the measure", theory.ErrGeneration, i+1, j+1)
			}
			used += dur

			if e.IsRest() || len(keys) == 0 {
				delta += dur
				continue
			}
			for _, k := range keys {
				track.Add(delta, midi.NoteOn(chordChannel, k, velocity))
				delta = 0
			}
			delta = dur
			for _, k := range keys {
				track.Add(delta, midi.NoteOff(chordChannel, k))
				delta = 0
			}
		}
		delta += measureTicks - used
	}
	track.Close(delta)
	return track, nil
}

// voicing returns the MIDI keys for a chord: the root-position notes plus,
// for inversions, the required bass pitch class below them.
func voicing(chord *theory.ChordInfo) ([]uint8, error) {
	if chord == nil {
		return nil, nil
	}
	var keys []uint8
	if chord.RequiredBassPc != nil && len(chord.Notes) > 0 {
		lowest := chord.Notes[0]
		gap := (lowest - *chord.RequiredBassPc) % 12
		if gap <= 0 {
			gap += 12
		}
		bass := lowest - gap
		if bass >= 0 {
			keys = append(keys, uint8(bass))
		}
	}
	for _, n := range chord.Notes {
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("%w: note %d is outside the MIDI range", theory.ErrGeneration, n)
		}
		keys = append(keys, uint8(n))
	}
	return keys, nil
}
