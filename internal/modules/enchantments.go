package modules

import (
	"slices"
	"strings"
	"unicode"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// EnchantmentsModule provides the enchantment ids registered by the enchantments holder class.
type EnchantmentsModule struct{}

func (m *EnchantmentsModule) Name() string        { return "enchantments" }
func (m *EnchantmentsModule) Description() string { return "Provides a list of all enchantments" }
func (m *EnchantmentsModule) Provides() []string  { return []string{"enchantments"} }
func (m *EnchantmentsModule) Depends() []string   { return []string{"identify.enchantments"} }

func (m *EnchantmentsModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	name, err := className(m.Name(), facts, "enchantments")
	if err != nil {
		return err
	}
	cf, err := load(m.Name(), repo, name)
	if err != nil {
		return err
	}

	// either <clinit> or a plain void method does the registering; take the first that loads constants
	var ops []classfile.Instruction
	for _, method := range cf.FindMethods(func(meth *classfile.Method) bool { return meth.Descriptor == "()V" }) {
		instructions, err := method.Instructions()
		if err != nil {
			continue
		}
		if slices.ContainsFunc(instructions, isLdc) {
			ops = instructions
			break
		}
	}
	if ops == nil {
		return analysis.Failf(m.Name(), "no method of %s loads constants", name)
	}

	enchantments := []any{}
	for _, ins := range ops {
		if !isLdc(ins) {
			continue
		}
		c, _ := ins.Const()
		str, ok := c.(*classfile.String)
		if !ok {
			continue
		}
		// older versions also load the all uppercase enum identifiers
		if isUpper(str.Value) {
			continue
		}
		enchantments = append(enchantments, str.Value)
	}
	facts.Set("enchantments", enchantments)
	verboseLog(verbose).Debugf("Found %d enchantments in %s", len(enchantments), name)
	return nil
}

func isLdc(ins classfile.Instruction) bool {
	return strings.HasPrefix(ins.Mnemonic(), "ldc")
}

// isUpper reports whether s has at least one cased letter and no lowercase ones
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
