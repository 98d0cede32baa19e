package spdx

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/rs/zerolog"

	"sbomdiff/internal/fileio"
	"sbomdiff/internal/kconfig"
	"sbomdiff/internal/model"
)

// Kind names the recognized input formats.
type Kind string

const (
	KindSPDX         Kind = "spdx"
	KindKernelConfig Kind = "kernel-config"
)

// Load opens path, transparently decompressing gzip or zstd, sniffs
// the content and returns a snapshot. JSON documents go through SPDX3
// extraction; anything else is read as a kernel .config file whose
// options land in the KernelConfig map.
func Load(path string, opts ExtractOptions, log zerolog.Logger) (*model.Snapshot, Kind, error) {
	log.Info().Str("file", path).Msg("opening input")
	rc, err := fileio.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	if looksLikeJSON(br) {
		snap, err := Extract(br, opts, log)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		return snap, KindSPDX, nil
	}

	entries, err := kconfig.Parse(br)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("file", path).Int("options", len(entries)).Msg("parsed kernel config")

	snap := model.NewSnapshot()
	snap.KernelConfig = kconfig.Map(entries)
	return snap, KindKernelConfig, nil
}

func looksLikeJSON(br *bufio.Reader) bool {
	head, _ := br.Peek(512)
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
