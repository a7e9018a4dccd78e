/*
Package blockindex contains an immutable, sorted, block-structured index
which maps arbitrary byte-string keys to fixed-width values. A file is built
once from pre-sorted input and queried read-only thereafter, typically via
a memory map.

Data Structure Documentation

File

A file starts with a header, followed by the index blocks (topmost level
first) and the data blocks. Every block has the same size and blocks are
addressed by number, starting at zero right after the header. Block 0 is the
root index block or, if the file has no index, the first data block.

    File layout:
    +--------+---------------+-----+---------------+--------------+-----+--------------+
    | header | index block 0 | ... | index block m | data block 0 | ... | data block n |
    +--------+---------------+-----+---------------+--------------+-----+--------------+

    Header:
    +-----------------------+-----------------------------+
    | block size (4 bytes)  | index block count (4 bytes) |
    +-----------------------+-----------------------------+

Data Block

A data block contains a series of records followed by sentinel padding. An
empty key, i.e. a sentinel at the start of a record, marks the end of the block.

    +-----------------+----------+------------------------+-------+-------------------+
    | key 1 (varlen)  | sentinel | value 1 (fixed width)  |  ...  | sentinel padding  |
    +-----------------+----------+------------------------+-------+-------------------+

Index Block

An index block starts with the pointer to its leftmost child block, followed
by a series of separator entries and sentinel padding. An entry points at the
child block holding the keys >= its separator. Pointers are absolute block
numbers.

    +----------------------------+-------------------+------------------------+----------+-------+-------------------+
    | leftmost pointer (4 bytes) | pointer (4 bytes) | separator 1 (varlen)   | sentinel |  ...  | sentinel padding  |
    +----------------------------+-------------------+------------------------+----------+-------+-------------------+

Index levels are self-similar: level 0 points at data blocks, level n points
at blocks of level n-1. All integers are little-endian. The sentinel byte and
the value width are not stored in the file and must be known to the reader.
*/
package blockindex
