// Package server exposes the diff worker over line-delimited JSON-RPC 2.0
// on stdin/stdout. The host serializes requests; the loop reads, handles
// and answers one message at a time, so worker entry points are mutually
// exclusive by construction. A fault fails its own call only: the loop
// keeps serving subsequent requests.
package server

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"nbdiff/internal/logging"
	"nbdiff/internal/worker"
)

// Server runs the worker's stdio message loop.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *logging.Logger
	version string
	worker  *worker.Worker

	shuttingDown bool
}

// New creates a server bound to os.Stdin/os.Stdout.
func New(version string, w *worker.Worker, logger *logging.Logger) *Server {
	session := uuid.New().String()
	return &Server{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		logger:  logger.With(map[string]interface{}{"session": session}),
		version: version,
		worker:  w,
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil // Reset scanner so it will be recreated with new reader
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}

// Start runs the message loop until EOF or an explicit shutdown request.
func (s *Server) Start() error {
	s.logger.Info("Diff worker starting", map[string]interface{}{
		"version": s.version,
	})

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("Diff worker shutting down (EOF)", nil)
				return nil
			}
			s.logger.Error("Error reading message", map[string]interface{}{
				"error": err.Error(),
			})
			if msg != nil && msg.Id != nil {
				_ = s.writeError(msg.Id, ParseError, fmt.Sprintf("Failed to parse message: %v", err))
			}
			continue
		}

		response := s.handleMessage(msg)

		// Notifications don't generate responses
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		if s.shuttingDown {
			s.logger.Info("Diff worker shutting down (requested)", nil)
			return nil
		}
	}
}
