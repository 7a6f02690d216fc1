package replay

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot is the top level of an HCL replay log.
type hclRoot struct {
	Commands []*hclCommand `hcl:"command,block"`
}

// hclCommand mirrors network.Command. The optional attributes are kept as
// expressions so absence can be told apart from a zero value.
type hclCommand struct {
	Kind    string         `hcl:"kind,label"`
	Path    string         `hcl:"path"`
	Items   hcl.Expression `hcl:"items,optional"`
	Filters hcl.Expression `hcl:"filters,optional"`
	Weight  hcl.Expression `hcl:"weight,optional"`
	Order   hcl.Expression `hcl:"order,optional"`
	Range   hcl.Range      `hcl:",def_range"`
}

// EncodeHCL writes cmds as a sequence of command blocks.
func EncodeHCL[T, U any](w io.Writer, cmds []network.Command[T, U]) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, cmd := range cmds {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("command", []string{cmd.Kind.String()})
		attrs := block.Body()
		attrs.SetAttributeValue("path", cty.StringVal(cmd.Path.String()))

		switch cmd.Kind {
		case network.CmdFillBucket:
			if len(cmd.Items) == 0 {
				continue
			}
			val, err := toCtyValue(cmd.Items)
			if err != nil {
				return fmt.Errorf("command %d (%s): items: %w", i, cmd.Kind, err)
			}
			attrs.SetAttributeValue("items", val)
		case network.CmdSetFilters:
			if len(cmd.Filters) == 0 {
				continue
			}
			val, err := toCtyValue(cmd.Filters)
			if err != nil {
				return fmt.Errorf("command %d (%s): filters: %w", i, cmd.Kind, err)
			}
			attrs.SetAttributeValue("filters", val)
		case network.CmdSetWeight:
			attrs.SetAttributeValue("weight", cty.NumberUIntVal(uint64(cmd.Weight)))
		case network.CmdSetOrderType:
			attrs.SetAttributeValue("order", cty.StringVal(cmd.Order.String()))
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// DecodeHCL parses an HCL replay log. filename is used in diagnostics only.
func DecodeHCL[T, U any](ctx context.Context, src []byte, filename string) ([]network.Command[T, U], error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cmds := make([]network.Command[T, U], 0, len(root.Commands))
	for _, block := range root.Commands {
		cmd, err := translateCommand[T, U](ctx, block)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", block.Range.Filename, block.Range.Start.Line, err)
		}
		cmds = append(cmds, cmd)
	}

	logger.Debug("HCL replay log decoded.", "file", filename, "commands", len(cmds))
	return cmds, nil
}

func translateCommand[T, U any](ctx context.Context, block *hclCommand) (network.Command[T, U], error) {
	var cmd network.Command[T, U]

	kind, err := network.ParseCommandKind(block.Kind)
	if err != nil {
		return cmd, err
	}
	p, err := path.Parse(block.Path)
	if err != nil {
		return cmd, fmt.Errorf("command %q: path: %w", block.Kind, err)
	}
	cmd.Kind = kind
	cmd.Path = p

	switch kind {
	case network.CmdFillBucket:
		if _, err := decodeOptional(ctx, block.Items, &cmd.Items); err != nil {
			return cmd, fmt.Errorf("command %q: items: %w", block.Kind, err)
		}
	case network.CmdSetFilters:
		if _, err := decodeOptional(ctx, block.Filters, &cmd.Filters); err != nil {
			return cmd, fmt.Errorf("command %q: filters: %w", block.Kind, err)
		}
	case network.CmdSetWeight:
		ok, err := decodeOptional(ctx, block.Weight, &cmd.Weight)
		if err != nil {
			return cmd, fmt.Errorf("command %q: weight: %w", block.Kind, err)
		}
		if !ok {
			return cmd, fmt.Errorf("command %q: missing required attribute \"weight\"", block.Kind)
		}
	case network.CmdSetOrderType:
		var name string
		ok, err := decodeOptional(ctx, block.Order, &name)
		if err != nil {
			return cmd, fmt.Errorf("command %q: order: %w", block.Kind, err)
		}
		if !ok {
			return cmd, fmt.Errorf("command %q: missing required attribute \"order\"", block.Kind)
		}
		if cmd.Order, err = order.ParseType(name); err != nil {
			return cmd, fmt.Errorf("command %q: %w", block.Kind, err)
		}
	}
	return cmd, nil
}

// decodeOptional evaluates expr and stores it in target. It reports false
// when the attribute was absent.
func decodeOptional(ctx context.Context, expr hcl.Expression, target any) (bool, error) {
	if expr == nil {
		return false, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() {
		return false, nil
	}
	return true, decode(ctx, val, target)
}

// decode converts val to the cty type implied by target and stores it.
func decode(ctx context.Context, val cty.Value, target any) error {
	logger := ctxlog.FromContext(ctx)
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", target)
	}

	impliedType, err := gocty.ImpliedType(ptr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", ptr.Elem().Type().String(), "error", err)
		return gocty.FromCtyValue(val, target)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}

// toCtyValue converts a native Go value into its corresponding cty.Value.
func toCtyValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
