package nestopt

import (
	"fmt"
	"strings"

	"github.com/napalu/nestopt/config"
	"github.com/napalu/nestopt/errs"
)

// SetDefaultsFromConfigs loads configs (file paths, maps or namespaces,
// merged left to right) and uses their values as argument defaults. Keys
// match destinations: "db.host" is looked up as {"db": {"host": ...}}. A
// key named after a sub-command holding a mapping seeds that command's
// parser. With optionalize, arguments receiving a default stop being
// required.
func (p *Parser) SetDefaultsFromConfigs(optionalize bool, configs ...any) error {
	m, err := config.Load(configs...)
	if err != nil {
		return errs.ErrConfigLoad.WithArgs(describeConfigs(configs)).Wrap(err)
	}
	p.applyDefaults(m, optionalize)
	return nil
}

func (p *Parser) applyDefaults(conf map[string]any, optionalize bool) {
	for _, a := range p.actions {
		if v, ok := lookupConfig(conf, a.Dest); ok {
			a.Default = v
			if optionalize {
				a.Required = false
			}
			p.logger.Debug("default applied", "dest", a.Dest)
		}

		if a.Action != ActionParsers || p.subparsers == nil {
			continue
		}
		for _, cmd := range p.subparsers.Commands() {
			for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
				if sub, ok := conf[name].(map[string]any); ok {
					cmd.Parser.applyDefaults(sub, optionalize)
				}
			}
		}
	}
}

// lookupConfig walks conf along the segments of dest. Partial
// configurations are fine: a missing segment, or one that is not a
// mapping, reports false.
func lookupConfig(conf map[string]any, dest string) (any, bool) {
	parts := strings.Split(dest, ".")
	cur := conf
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	v, ok := cur[parts[len(parts)-1]]
	return v, ok
}

func describeConfigs(configs []any) string {
	parts := make([]string, 0, len(configs))
	for _, c := range configs {
		if s, ok := c.(string); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, fmt.Sprintf("%T", c))
	}
	return strings.Join(parts, ", ")
}
