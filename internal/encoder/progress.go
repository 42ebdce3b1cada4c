package encoder

import (
	"strconv"
	"strings"
)

// progressParser incrementally consumes the key=value lines ffmpeg writes
// with -progress. Only the elapsed-output-time keys are tracked; unrecognized
// keys are ignored so new ffmpeg versions can add fields without breaking us.
//
// ffmpeg reports elapsed output time under several keys depending on version:
// out_time_us (microseconds), out_time_ms (also microseconds, historical
// misnomer), and out_time (HH:MM:SS.micro). Any of them is accepted; the
// most recent valid value wins.
type progressParser struct {
	seconds float64
	valid   bool
	ended   bool // saw "progress=end"
}

// consume parses one line of progress output.
func (p *progressParser) consume(line string) {
	line = strings.TrimSpace(line)
	key, value, found := strings.Cut(line, "=")
	if !found {
		return
	}

	switch key {
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || us < 0 {
			return
		}
		p.seconds = float64(us) / 1e6
		p.valid = true
	case "out_time":
		sec, ok := parseClockTime(strings.TrimSpace(value))
		if !ok {
			return
		}
		p.seconds = sec
		p.valid = true
	case "progress":
		if strings.TrimSpace(value) == "end" {
			p.ended = true
		}
	}
}

// elapsed returns the latest elapsed output time in seconds, and whether any
// valid time marker has been seen yet.
func (p *progressParser) elapsed() (float64, bool) {
	return p.seconds, p.valid
}

// parseClockTime parses ffmpeg's HH:MM:SS.micro form into seconds.
func parseClockTime(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || h < 0 || m < 0 || sec < 0 {
		return 0, false
	}
	return float64(h)*3600 + float64(m)*60 + sec, true
}
