package blockindex

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("IndexScanner", func() {
	var block []byte

	// leftmost 7, entries: 8 => "b", 9 => "d", 10 => "dd"
	BeforeEach(func() {
		block = appendPointer(nil, 7)
		for _, ent := range []indexEntry{{8, []byte("b")}, {9, []byte("d")}, {10, []byte("dd")}} {
			block = appendPointer(block, ent.ptr)
			block = append(block, ent.key...)
			block = append(block, 0)
		}
		block = pad(block, 32, 0)
	})

	It("should scan", func() {
		s := NewIndexScanner(block, 0)
		Expect(s.Leftmost()).To(Equal(uint32(7)))

		var res []indexEntry
		for s.Next() {
			res = append(res, indexEntry{ptr: s.Pointer(), key: s.Key()})
		}
		Expect(s.Err()).NotTo(HaveOccurred())
		Expect(res).To(Equal([]indexEntry{{8, []byte("b")}, {9, []byte("d")}, {10, []byte("dd")}}))
	})

	It("should find", func() {
		for key, exp := range map[string]uint32{
			"":   7,
			"a":  7,
			"b":  7,
			"ba": 8,
			"c":  8,
			"d":  8,
			"da": 9,
			"dd": 9,
			"e":  10,
		} {
			Expect(FindIndexBlock(block, []byte(key), 0)).To(Equal(exp), "for %q", key)
		}
	})

	It("should find in blocks without entries", func() {
		empty := pad(appendPointer(nil, 3), 16, 0)
		Expect(FindIndexBlock(empty, []byte("x"), 0)).To(Equal(uint32(3)))
	})

	It("should rebase", func() {
		Expect(rebaseIndexBlock(block, 0, 100)).To(Succeed())
		Expect(FindIndexBlock(block, []byte("a"), 0)).To(Equal(uint32(107)))
		Expect(FindIndexBlock(block, []byte("c"), 0)).To(Equal(uint32(108)))
		Expect(FindIndexBlock(block, []byte("e"), 0)).To(Equal(uint32(110)))
	})

	It("should fail on malformed blocks", func() {
		_, err := FindIndexBlock(bytes.Repeat([]byte{1}, 16), []byte("x"), 0)
		Expect(err).To(MatchError(ErrMalformedBlock))

		_, err = FindIndexBlock([]byte{1, 2}, []byte("x"), 0)
		Expect(err).To(MatchError(ErrMalformedBlock))
	})
})
