package replay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/network"
)

// Format selects a replay log codec.
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "hcl", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "hcl":
		return FormatHCL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported replay log format %q (want hcl or yaml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(filename string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer replay log format of %s: no extension", filename)
	}
	return ParseFormat(ext)
}

// Encode writes cmds in the given format.
func Encode[T, U any](w io.Writer, format Format, cmds []network.Command[T, U]) error {
	switch format {
	case FormatHCL:
		return EncodeHCL(w, cmds)
	case FormatYAML:
		return EncodeYAML(w, cmds)
	}
	return fmt.Errorf("unsupported replay log format %q", format)
}

// Decode parses src in the given format.
func Decode[T, U any](ctx context.Context, src []byte, filename string, format Format) ([]network.Command[T, U], error) {
	switch format {
	case FormatHCL:
		return DecodeHCL[T, U](ctx, src, filename)
	case FormatYAML:
		return DecodeYAML[T, U](ctx, src, filename)
	}
	return nil, fmt.Errorf("unsupported replay log format %q", format)
}

// Save writes the replay log of n to filename, choosing the codec by
// extension.
func Save[T, U any](ctx context.Context, filename string, n *network.Network[T, U]) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	cmds := n.Commands()

	var buf bytes.Buffer
	if err := Encode(&buf, format, cmds); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write replay log: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Replay log saved.", "file", filename, "format", format, "commands", len(cmds))
	return nil
}

// Load reads filename and replays it into a new network. A missing file is
// reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func Load[T, U any](ctx context.Context, filename string, opts ...network.Option) (*network.Network[T, U], error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay log: %w", err)
	}
	cmds, err := Decode[T, U](ctx, src, filename, format)
	if err != nil {
		return nil, err
	}
	n, err := network.FromCommands(ctx, cmds, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	ctxlog.FromContext(ctx).Debug("Replay log loaded.", "file", filename, "format", format, "commands", len(cmds))
	return n, nil
}
