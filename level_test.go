package blockindex

import (
	"bytes"
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("levelBuilder", func() {
	var subject *levelBuilder

	// 32 byte blocks hold the leftmost pointer plus three 8 byte entries.
	BeforeEach(func() {
		subject = newLevelBuilder((&WriterOptions{BlockSize: 32, SpillThreshold: -1}).norm())
		for i := 1; i <= 7; i++ {
			Expect(subject.add(0, uint32(i), []byte(fmt.Sprintf("k%02d", i)))).To(Succeed())
		}
	})

	AfterEach(func() {
		Expect(subject.Close()).To(Succeed())
	})

	It("should spill into higher levels", func() {
		Expect(subject.NumLevels()).To(Equal(2))
		Expect(subject.levels[0].blocks).To(Equal(1))
		Expect(subject.levels[1].blocks).To(Equal(0))
	})

	It("should finish", func() {
		buf := new(bytes.Buffer)
		hdr, err := subject.finish(buf, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr).To(Equal(Header{BlockSize: 32, IndexBlockCount: 3}))
		Expect(buf.Len()).To(Equal(8 + 3*32))

		block := func(n int) []byte { return buf.Bytes()[8+n*32 : 8+(n+1)*32] }

		// root
		Expect(NewIndexScanner(block(0), 0).Leftmost()).To(Equal(uint32(1)))
		Expect(FindIndexBlock(block(0), []byte("k04"), 0)).To(Equal(uint32(1)))
		Expect(FindIndexBlock(block(0), []byte("k05"), 0)).To(Equal(uint32(2)))

		// level 0, pointing at data blocks 3..10
		Expect(FindIndexBlock(block(1), []byte("k00"), 0)).To(Equal(uint32(3)))
		Expect(FindIndexBlock(block(1), []byte("k02"), 0)).To(Equal(uint32(4)))
		Expect(FindIndexBlock(block(1), []byte("k04"), 0)).To(Equal(uint32(6)))
		Expect(NewIndexScanner(block(2), 0).Leftmost()).To(Equal(uint32(7)))
		Expect(FindIndexBlock(block(2), []byte("k05"), 0)).To(Equal(uint32(7)))
		Expect(FindIndexBlock(block(2), []byte("k09"), 0)).To(Equal(uint32(10)))
	})

	It("should reject oversized separators", func() {
		Expect(subject.add(0, 8, bytes.Repeat([]byte{'x'}, 24))).To(MatchError(ErrRecordTooLarge))
	})
})
