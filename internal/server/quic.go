package server

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
	"github.com/miles-hollifield/BuildingGameAI-sub000/pkg/generic"
)

// ALPN is the application protocol viewers must offer when dialing the
// QUIC feed.
const ALPN = "gameai-quic"

const (
	quicMaxIdleTimeout  = 30 * time.Second
	quicKeepAlivePeriod = 15 * time.Second
)

// Feed streams snapshots to QUIC viewers. Each accepted connection gets
// one bidirectional stream: the server writes newline-delimited JSON
// snapshots, the client may write newline-delimited JSON commands back.
type Feed struct {
	sink CommandSink
	log  log.Log

	mu       sync.Mutex
	ln       *quic.Listener
	sessions map[*feedSession]bool
}

type feedSession struct {
	conn   quic.Connection
	stream quic.Stream
	send   chan []byte
}

// NewFeed returns a feed with no listener bound yet.
func NewFeed(sink CommandSink, logger log.Log) *Feed {
	return &Feed{
		sink:     sink,
		log:      logger,
		sessions: make(map[*feedSession]bool),
	}
}

// Listen binds the UDP listener with a fresh self-signed certificate
// and reports the bound address.
func (f *Feed) Listen(addr string) (net.Addr, error) {
	tlsConf, err := GenerateSelfSignedTLS()
	if err != nil {
		return nil, fmt.Errorf("server: tls setup: %w", err)
	}

	ln, err := quic.ListenAddr(addr, tlsConf, &quic.Config{
		MaxIdleTimeout:  quicMaxIdleTimeout,
		KeepAlivePeriod: quicKeepAlivePeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("server: quic listen: %w", err)
	}

	f.mu.Lock()
	f.ln = ln
	f.mu.Unlock()
	return ln.Addr(), nil
}

// Serve accepts viewers until the listener closes or ctx is cancelled.
// Listen must have been called first.
func (f *Feed) Serve(ctx context.Context) error {
	f.mu.Lock()
	ln := f.ln
	f.mu.Unlock()
	if ln == nil {
		return errors.New("server: quic feed is not listening")
	}

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if errors.Is(err, quic.ErrServerClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("server: quic accept: %w", err)
		}
		go f.handle(ctx, conn)
	}
}

// Sessions reports how many QUIC viewers are connected.
func (f *Feed) Sessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// Broadcast sends one encoded snapshot to every session, dropping any
// session that has stopped draining its buffer.
func (f *Feed) Broadcast(payload []byte) {
	var stale []*feedSession
	f.mu.Lock()
	for s := range f.sessions {
		select {
		case s.send <- payload:
		default:
			delete(f.sessions, s)
			close(s.send)
			stale = append(stale, s)
		}
	}
	f.mu.Unlock()

	for _, s := range stale {
		_ = s.conn.CloseWithError(0, "send buffer full")
		f.log.Warn("quic viewer dropped",
			log.String("remote", s.conn.RemoteAddr().String()),
			log.String("reason", "send buffer full"))
	}
}

// Close stops the listener and disconnects every session.
func (f *Feed) Close() {
	f.mu.Lock()
	ln := f.ln
	f.ln = nil
	sessions := make([]*feedSession, 0, len(f.sessions))
	for s := range f.sessions {
		delete(f.sessions, s)
		close(s.send)
		sessions = append(sessions, s)
	}
	f.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	for _, s := range sessions {
		_ = s.conn.CloseWithError(0, "server shutting down")
	}
}

func (f *Feed) handle(ctx context.Context, conn quic.Connection) {
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		f.log.Warn("quic stream open failed", log.Error(err))
		_ = conn.CloseWithError(0, "stream open failed")
		return
	}

	s := &feedSession{conn: conn, stream: stream, send: make(chan []byte, clientSendBuffer)}
	f.mu.Lock()
	f.sessions[s] = true
	total := len(f.sessions)
	f.mu.Unlock()

	f.log.Info("quic viewer connected",
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("viewers", total))

	go f.readCommands(s)
	f.writeSnapshots(s)
}

// drop disconnects one session. Safe to call from both pumps.
func (f *Feed) drop(s *feedSession) {
	f.mu.Lock()
	if _, ok := f.sessions[s]; ok {
		delete(f.sessions, s)
		close(s.send)
	}
	f.mu.Unlock()
	_ = s.conn.CloseWithError(0, "closed")
}

func (f *Feed) readCommands(s *feedSession) {
	defer f.drop(s)

	scanner := bufio.NewScanner(s.stream)
	scanner.Buffer(make([]byte, 0, 512), maxCommandBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var cmd sim.Command
		if err := json.Unmarshal(line, &cmd); err != nil {
			f.log.Warn("command rejected", log.Error(err))
			continue
		}
		if err := cmd.Validate(); err != nil {
			f.log.Warn("command rejected", log.Error(err))
			continue
		}
		f.sink.Enqueue(cmd)
	}
}

var framePool = generic.NewPool(func() []byte { return make([]byte, 0, 4096) })

func (f *Feed) writeSnapshots(s *feedSession) {
	defer f.drop(s)

	for payload := range s.send {
		// Sessions share the payload slice, so frame into a private buffer.
		buf := framePool.Get()[:0]
		buf = append(buf, payload...)
		buf = append(buf, '\n')

		_ = s.stream.SetWriteDeadline(time.Now().Add(writeTimeout))
		_, err := s.stream.Write(buf)
		framePool.Put(buf)
		if err != nil {
			return
		}
	}
}

// GenerateSelfSignedTLS builds a throwaway certificate for local play.
// Viewers are expected to skip verification and match on ALPN.
func GenerateSelfSignedTLS() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"BuildingGameAI"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:              []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}
