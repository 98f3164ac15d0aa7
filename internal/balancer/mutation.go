package balancer

import "github.com/alxayo/gelflb/internal/gelf"

// MutationConfig captures the triggers and parameters for payload rewriting.
// Mutation is required iff any of AttachSourceInfo, len(StripFields) > 0,
// len(BlankFields) > 0, or Transparent is true. Transparent is folded into
// the trigger set even though it alone does not modify the payload (both the
// reassembly path and the passthrough path carry the original source address
// to the packet builder); this matches the upstream source's trigger set and
// is preserved rather than narrowed.
type MutationConfig struct {
	AttachSourceInfo bool
	StripFields      []string
	BlankFields      []string
	Transparent      bool
	UseGzip          bool
	ChunkSize        int
}

// Required reports whether the dispatcher must reassemble and decode
// payloads before forwarding.
func (m MutationConfig) Required() bool {
	return m.AttachSourceInfo || len(m.StripFields) > 0 || len(m.BlankFields) > 0 || m.Transparent
}

const originalSourceAddrField = "gelflb_original_source_addr"

// applyMutations rewrites payload fields in place per the configured
// triggers.
func applyMutations(cfg MutationConfig, p *gelf.Payload, sourceIP string) {
	if cfg.AttachSourceInfo {
		p.SetFieldIfAbsent(originalSourceAddrField, sourceIP)
	}
	for _, name := range cfg.StripFields {
		p.StripField(name)
	}
	for _, name := range cfg.BlankFields {
		p.BlankField(name)
	}
}
