package borsh

// binary.go bridges the primitive Reader/Writer and whole byte slices.
//
// Two framings are supported:
//   - exact: instruction payloads, where every byte must be consumed
//   - padded: account records, which are allocated at a fixed size and
//     zero-filled after the last field

// MarshalBinaryAdapter runs the user's serialization function and returns the bytes written.
func MarshalBinaryAdapter(marshal func(*Writer) error) ([]byte, error) {
	w := NewWriter(64)
	if err := marshal(w); err != nil {
		return nil, err
	}
	return w.BytesW.Bytes(), nil
}

// MarshalPaddedAdapter serializes a record and zero-fills it up to size.
// Returns ErrRecordTooLarge if the fields alone exceed size.
func MarshalPaddedAdapter(size int, marshal func(*Writer) error) ([]byte, error) {
	w := NewWriter(size)
	if err := marshal(w); err != nil {
		return nil, err
	}
	if w.BytesW.Len() > size {
		return nil, ErrRecordTooLarge
	}
	w.BytesW.WriteZeros(size - w.BytesW.Len())
	return w.BytesW.Bytes(), nil
}

// UnmarshalBinaryAdapter runs the user's deserialization function over raw and
// requires that all of raw was consumed.
func UnmarshalBinaryAdapter(raw []byte, unmarshal func(*Reader) error) (err error) {
	defer recoverMalformed(&err)

	r := NewReader(raw)
	if err := unmarshal(r); err != nil {
		return err
	}
	if !r.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}
	return nil
}

// UnmarshalPaddedAdapter is like UnmarshalBinaryAdapter, but it accepts trailing
// bytes as long as they are all zero.
func UnmarshalPaddedAdapter(raw []byte, unmarshal func(*Reader) error) (err error) {
	defer recoverMalformed(&err)

	r := NewReader(raw)
	if err := unmarshal(r); err != nil {
		return err
	}
	for _, b := range r.BytesR.Remaining() {
		if b != 0 {
			return ErrNonCanonicalEncoding
		}
	}
	return nil
}

// recoverMalformed converts reader panics into errors. Explicit canonical
// violations keep their identity; anything else (slice bounds) is malformed input.
func recoverMalformed(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && e == ErrNonCanonicalEncoding {
		*err = ErrNonCanonicalEncoding
		return
	}
	*err = ErrMalformedEncoding
}
