package blockindex_test

import (
	"github.com/bsm/blockindex"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("CommonPrefixLen", func() {
	DescribeTable("should calculate",
		func(a, b string, exp int) {
			Expect(blockindex.CommonPrefixLen([]byte(a), []byte(b))).To(Equal(exp))
			Expect(blockindex.CommonPrefixLen([]byte(b), []byte(a))).To(Equal(exp))
		},
		Entry("empty", "", "abc", 0),
		Entry("disjoint", "abc", "xyz", 0),
		Entry("partial", "abc", "abd", 2),
		Entry("contained", "ab", "abc", 2),
		Entry("equal", "abc", "abc", 3),
		Entry("long", "http://example.com/a", "http://example.com/b", 19),
		Entry("long equal", "http://example.com/", "http://example.com/", 19),
	)
})

var _ = Describe("MinimalSeparator", func() {
	DescribeTable("should calculate",
		func(prev, next, exp string) {
			Expect(string(blockindex.MinimalSeparator([]byte(prev), []byte(next)))).To(Equal(exp))
		},
		Entry("first byte", "a", "b", "b"),
		Entry("shared prefix", "abc", "abd", "abd"),
		Entry("short", "abc", "abzzzz", "abz"),
		Entry("prev is prefix", "ab", "abcd", "abc"),
		Entry("equal", "same", "same", "same"),
		Entry("urls", "http://example.com/a/zzz", "http://example.com/b/aaa", "http://example.com/b"),
	)

	It("should sort after prev", func() {
		pairs := [][2]string{{"a", "b"}, {"abc", "abd"}, {"ab", "abcd"}, {"x1", "x20"}}
		for _, p := range pairs {
			sep := string(blockindex.MinimalSeparator([]byte(p[0]), []byte(p[1])))
			Expect(sep > p[0]).To(BeTrue(), "for %v", p)
			Expect(sep <= p[1]).To(BeTrue(), "for %v", p)
		}
	})
})
