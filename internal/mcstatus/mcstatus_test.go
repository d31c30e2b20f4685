package mcstatus

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, 127, 128, 255, 16384, 2097151, 2147483647, -1}
	for _, v := range values {
		var buf bytes.Buffer
		writeVarInt(&buf, v)
		got, err := readVarInt(&buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestReadVarIntTooLong(t *testing.T) {
	if _, err := readVarInt(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80})); err == nil {
		t.Fatalf("expected error for overlong varint")
	}
}

func TestDecodeDescription(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"plain motd"`, "plain motd"},
		{`{"text":"CHAOSMC"}`, "CHAOSMC"},
		{`{"text":"CHAOS","extra":[{"text":"MC"},{"text":".ZONE"}]}`, "CHAOSMC.ZONE"},
		{`{"extra":["tail"]}`, "tail"},
		{``, ""},
	}
	for _, tc := range cases {
		if got := decodeDescription(json.RawMessage(tc.raw)); got != tc.want {
			t.Errorf("decodeDescription(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

// fakeServer speaks just enough of the protocol to answer one status request.
func fakeServer(t *testing.T, statusJSON string) (host string, port int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake then status request.
		if _, err := readPacket(conn); err != nil {
			return
		}
		if _, err := readPacket(conn); err != nil {
			return
		}

		var body bytes.Buffer
		body.WriteByte(0x00)
		writeString(&body, statusJSON)
		_ = writePacket(conn, body.Bytes())
	}()

	addrHost, addrPort, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	p, _ := strconv.Atoi(addrPort)
	return addrHost, p
}

func TestPing(t *testing.T) {
	host, port := fakeServer(t, `{
		"version": {"name": "Paper 1.21", "protocol": 767},
		"players": {"max": 500, "online": 123},
		"description": {"text": "CHAOSMC.ZONE"}
	}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := Ping(ctx, host, port)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if status.PlayersOnline != 123 || status.PlayersMax != 500 {
		t.Fatalf("players = %d/%d", status.PlayersOnline, status.PlayersMax)
	}
	if status.VersionName != "Paper 1.21" || status.Protocol != 767 {
		t.Fatalf("version = %q protocol %d", status.VersionName, status.Protocol)
	}
	if status.Description != "CHAOSMC.ZONE" {
		t.Fatalf("description = %q", status.Description)
	}
	if status.Latency <= 0 {
		t.Fatalf("latency not measured")
	}
}

func TestPingUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := Ping(ctx, "127.0.0.1", 1)
	if err == nil {
		t.Fatalf("expected dial error")
	}
	if !strings.Contains(err.Error(), "dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
