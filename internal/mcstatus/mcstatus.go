// Package mcstatus implements the Minecraft Server List Ping handshake used
// to read the live player count off the game server.
package mcstatus

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const maxStatusBytes = 1 << 21

// Status is the decoded server list response.
type Status struct {
	VersionName   string
	Protocol      int
	PlayersOnline int
	PlayersMax    int
	Sample        []string
	Description   string
	Latency       time.Duration
}

type rawStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
		Sample []struct {
			Name string `json:"name"`
		} `json:"sample"`
	} `json:"players"`
	Description json.RawMessage `json:"description"`
}

// Ping performs the status handshake against host:port. The context bounds
// the whole exchange, including dialing.
func Ping(ctx context.Context, host string, port int) (*Status, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("dial %s:%d: %w", host, port, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	started := time.Now()
	if err := writeHandshake(conn, host, port); err != nil {
		return nil, err
	}
	if err := writePacket(conn, []byte{0x00}); err != nil {
		return nil, fmt.Errorf("status request: %w", err)
	}

	payload, err := readPacket(conn)
	if err != nil {
		return nil, fmt.Errorf("status response: %w", err)
	}
	latency := time.Since(started)

	buf := bytes.NewReader(payload)
	id, err := readVarInt(buf)
	if err != nil {
		return nil, fmt.Errorf("status response: %w", err)
	}
	if id != 0x00 {
		return nil, fmt.Errorf("status response: unexpected packet id %#x", id)
	}
	body, err := readString(buf)
	if err != nil {
		return nil, fmt.Errorf("status response: %w", err)
	}

	var raw rawStatus
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	status := &Status{
		VersionName:   raw.Version.Name,
		Protocol:      raw.Version.Protocol,
		PlayersOnline: raw.Players.Online,
		PlayersMax:    raw.Players.Max,
		Description:   decodeDescription(raw.Description),
		Latency:       latency,
	}
	for _, p := range raw.Players.Sample {
		if p.Name != "" {
			status.Sample = append(status.Sample, p.Name)
		}
	}
	return status, nil
}

// writeHandshake sends the intention packet switching the connection into
// status state. Protocol version -1 asks the server to answer regardless of
// its own version.
func writeHandshake(w io.Writer, host string, port int) error {
	var body bytes.Buffer
	body.WriteByte(0x00)
	writeVarInt(&body, -1)
	writeString(&body, host)
	binary.Write(&body, binary.BigEndian, uint16(port))
	writeVarInt(&body, 1)
	if err := writePacket(w, body.Bytes()); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	return nil
}

func writePacket(w io.Writer, payload []byte) error {
	var frame bytes.Buffer
	writeVarInt(&frame, int32(len(payload)))
	frame.Write(payload)
	_, err := w.Write(frame.Bytes())
	return err
}

func readPacket(r io.Reader) ([]byte, error) {
	length, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if length <= 0 || length > maxStatusBytes {
		return nil, fmt.Errorf("invalid packet length %d", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeVarInt(buf *bytes.Buffer, v int32) {
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if u == 0 {
			return
		}
	}
}

func readVarInt(r io.Reader) (int32, error) {
	var result uint32
	var one [1]byte
	for shift := 0; shift < 35; shift += 7 {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			return 0, err
		}
		result |= uint32(one[0]&0x7F) << shift
		if one[0]&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, fmt.Errorf("varint too long")
}

func writeString(buf *bytes.Buffer, s string) {
	writeVarInt(buf, int32(len(s)))
	buf.WriteString(s)
}

func readString(r io.Reader) (string, error) {
	length, err := readVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 || length > maxStatusBytes {
		return "", fmt.Errorf("invalid string length %d", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeDescription flattens the MOTD, which servers send either as a plain
// string or as a chat component tree.
func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var component struct {
		Text  string            `json:"text"`
		Extra []json.RawMessage `json:"extra"`
	}
	if err := json.Unmarshal(raw, &component); err != nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(component.Text)
	for _, extra := range component.Extra {
		sb.WriteString(decodeDescription(extra))
	}
	return sb.String()
}
