package telopts

import (
	"fmt"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	msdpVar        = 1
	msdpVal        = 2
	msdpTableOpen  = 3
	msdpTableClose = 4
	msdpArrayOpen  = 5
	msdpArrayClose = 6
)

// MSDPValue is an MSDP (Mud Server Data Protocol) value: a plain string, an
// ordered list ([]MSDPValue), or a nested table (map[string]MSDPValue).
type MSDPValue any

// MSDPTable is the top-level MSDP subnegotiation payload: a table of named
// variables, each an MSDPValue.
type MSDPTable map[string]MSDPValue

// EncodeMSDP expects value to be an MSDPTable.
func EncodeMSDP(value any) ([]byte, error) {
	table, ok := value.(MSDPTable)
	if !ok {
		return nil, fmt.Errorf("telopts: MSDP payload must be telopts.MSDPTable, got %T", value)
	}

	var buf []byte
	for name, v := range table {
		buf = append(buf, msdpVar)
		buf = append(buf, []byte(name)...)
		buf = append(buf, msdpVal)
		encoded, err := encodeMSDPValue(v)
		if err != nil {
			return nil, fmt.Errorf("telopts: MSDP variable %q: %w", name, err)
		}
		buf = append(buf, encoded...)
	}
	return buf, nil
}

func encodeMSDPValue(v MSDPValue) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case []MSDPValue:
		buf := []byte{msdpArrayOpen}
		for _, item := range x {
			buf = append(buf, msdpVal)
			encoded, err := encodeMSDPValue(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, encoded...)
		}
		buf = append(buf, msdpArrayClose)
		return buf, nil
	case MSDPTable:
		buf := []byte{msdpTableOpen}
		for name, item := range x {
			buf = append(buf, msdpVar)
			buf = append(buf, []byte(name)...)
			buf = append(buf, msdpVal)
			encoded, err := encodeMSDPValue(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, encoded...)
		}
		buf = append(buf, msdpTableClose)
		return buf, nil
	default:
		return nil, fmt.Errorf("telopts: unsupported MSDP value type %T", v)
	}
}

// DecodeMSDP parses the VAR/VAL/table/array grammar into an MSDPTable.
func DecodeMSDP(payload []byte) (any, error) {
	p := &msdpParser{data: payload}
	table, err := p.parseTableBody(false)
	if err != nil {
		return nil, err
	}
	return table, nil
}

type msdpParser struct {
	data []byte
	pos  int
}

// parseTableBody consumes VAR/VAL pairs until the payload ends (top level)
// or a TABLE_CLOSE is found (nested), consuming the TABLE_CLOSE itself.
func (p *msdpParser) parseTableBody(nested bool) (MSDPTable, error) {
	table := make(MSDPTable)

	for p.pos < len(p.data) {
		if nested && p.data[p.pos] == msdpTableClose {
			p.pos++
			return table, nil
		}

		if p.data[p.pos] != msdpVar {
			return nil, fmt.Errorf("telopts: MSDP expected VAR at offset %d, got 0x%02X", p.pos, p.data[p.pos])
		}
		p.pos++

		name := p.readUntilMarker()
		if p.pos >= len(p.data) || p.data[p.pos] != msdpVal {
			return nil, fmt.Errorf("telopts: MSDP variable %q missing VAL", name)
		}
		p.pos++

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		table[name] = value
	}

	if nested {
		return nil, fmt.Errorf("telopts: MSDP table missing TABLE_CLOSE")
	}
	return table, nil
}

func (p *msdpParser) readUntilMarker() string {
	start := p.pos
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case msdpVar, msdpVal, msdpTableClose, msdpArrayClose:
			return string(p.data[start:p.pos])
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *msdpParser) parseValue() (MSDPValue, error) {
	if p.pos < len(p.data) && p.data[p.pos] == msdpArrayOpen {
		p.pos++
		var items []MSDPValue
		for p.pos < len(p.data) && p.data[p.pos] != msdpArrayClose {
			if p.data[p.pos] != msdpVal {
				return nil, fmt.Errorf("telopts: MSDP array expected VAL at offset %d, got 0x%02X", p.pos, p.data[p.pos])
			}
			p.pos++
			item, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("telopts: MSDP array missing ARRAY_CLOSE")
		}
		p.pos++
		return items, nil
	}

	if p.pos < len(p.data) && p.data[p.pos] == msdpTableOpen {
		p.pos++
		return p.parseTableBody(true)
	}

	return p.readUntilMarker(), nil
}

// RegisterMSDP registers the MSDP codec pair on registry.
func RegisterMSDP(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionMSDP, EncodeMSDP, DecodeMSDP)
}
