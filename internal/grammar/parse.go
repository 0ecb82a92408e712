package grammar

// Parse validates the whole sequence against root and, only when every token
// was consumed, converts it into root's node.
func Parse[N any](root *NonTerminal[N], seq *Sequence) (N, error) {
	var zero N

	end, f := seq.validate(root, 0)
	if f != nil {
		if f.Kind == NotAttempted {
			escalated := *f
			escalated.Kind = AttemptedButInvalid
			return zero, &escalated
		}
		return zero, f
	}
	if end != seq.Len() {
		stop, expected := seq.Furthest(end)
		return zero, &Failure{
			Kind:     SequenceNotFinished,
			Symbol:   root.name,
			At:       stop,
			Start:    end,
			Expected: expected,
		}
	}

	frag, _ := seq.Convert(root, 0)
	node, _ := NodeOf[N](frag)
	return node, nil
}
