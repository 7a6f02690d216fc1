package replay

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
	"gopkg.in/yaml.v3"
)

type yamlDocument[T, U any] struct {
	Commands []yamlCommand[T, U] `yaml:"commands"`
}

type yamlCommand[T, U any] struct {
	Kind    *network.CommandKind `yaml:"kind"`
	Path    *path.Path           `yaml:"path"`
	Items   []T                  `yaml:"items,omitempty"`
	Filters []U                  `yaml:"filters,omitempty"`
	Weight  *uint32              `yaml:"weight,omitempty"`
	Order   *order.Type          `yaml:"order,omitempty"`
}

// EncodeYAML writes cmds as a YAML document with a single `commands` list.
func EncodeYAML[T, U any](w io.Writer, cmds []network.Command[T, U]) error {
	doc := yamlDocument[T, U]{Commands: make([]yamlCommand[T, U], 0, len(cmds))}
	for _, cmd := range cmds {
		kind, p := cmd.Kind, cmd.Path
		entry := yamlCommand[T, U]{Kind: &kind, Path: &p}
		switch cmd.Kind {
		case network.CmdFillBucket:
			entry.Items = cmd.Items
		case network.CmdSetFilters:
			entry.Filters = cmd.Filters
		case network.CmdSetWeight:
			weight := cmd.Weight
			entry.Weight = &weight
		case network.CmdSetOrderType:
			typ := cmd.Order
			entry.Order = &typ
		}
		doc.Commands = append(doc.Commands, entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// DecodeYAML parses a YAML replay log. filename is used in errors only.
func DecodeYAML[T, U any](ctx context.Context, src []byte, filename string) ([]network.Command[T, U], error) {
	var doc yamlDocument[T, U]
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}

	cmds := make([]network.Command[T, U], 0, len(doc.Commands))
	for i, entry := range doc.Commands {
		if entry.Kind == nil {
			return nil, fmt.Errorf("%s: command %d: missing required field \"kind\"", filename, i)
		}
		if entry.Path == nil {
			return nil, fmt.Errorf("%s: command %d (%s): missing required field \"path\"", filename, i, *entry.Kind)
		}
		cmd := network.Command[T, U]{Kind: *entry.Kind, Path: *entry.Path}
		switch cmd.Kind {
		case network.CmdFillBucket:
			cmd.Items = entry.Items
		case network.CmdSetFilters:
			cmd.Filters = entry.Filters
		case network.CmdSetWeight:
			if entry.Weight == nil {
				return nil, fmt.Errorf("%s: command %d (%s): missing required field \"weight\"", filename, i, cmd.Kind)
			}
			cmd.Weight = *entry.Weight
		case network.CmdSetOrderType:
			if entry.Order == nil {
				return nil, fmt.Errorf("%s: command %d (%s): missing required field \"order\"", filename, i, cmd.Kind)
			}
			cmd.Order = *entry.Order
		}
		cmds = append(cmds, cmd)
	}

	ctxlog.FromContext(ctx).Debug("YAML replay log decoded.", "file", filename, "commands", len(cmds))
	return cmds, nil
}
