package btree

import "encoding/binary"

// indexMetaInfo is the header page (page number 0) layout: relation name,
// key byte offset, key domain tag, root page number, and the "root is
// still a leaf" flag.
type indexMetaInfo struct {
	RelationName   [20]byte
	AttrByteOffset int32
	AttrType       AttrType
	RootPageNo     uint32
	RootIsLeaf     bool
}

const (
	metaOffRelationName   = 0
	metaOffAttrByteOffset = 20
	metaOffAttrType       = 24
	metaOffRootPageNo     = 25
	metaOffRootIsLeaf     = 29
)

func encodeMeta(m indexMetaInfo) []byte {
	buf := make([]byte, pageSize)
	copy(buf[metaOffRelationName:], m.RelationName[:])
	binary.LittleEndian.PutUint32(buf[metaOffAttrByteOffset:], uint32(m.AttrByteOffset))
	buf[metaOffAttrType] = byte(m.AttrType)
	binary.LittleEndian.PutUint32(buf[metaOffRootPageNo:], m.RootPageNo)
	if m.RootIsLeaf {
		buf[metaOffRootIsLeaf] = 1
	}
	return buf
}

func decodeMeta(buf []byte) indexMetaInfo {
	var m indexMetaInfo
	copy(m.RelationName[:], buf[metaOffRelationName:metaOffRelationName+20])
	m.AttrByteOffset = int32(binary.LittleEndian.Uint32(buf[metaOffAttrByteOffset:]))
	m.AttrType = AttrType(buf[metaOffAttrType])
	m.RootPageNo = binary.LittleEndian.Uint32(buf[metaOffRootPageNo:])
	m.RootIsLeaf = buf[metaOffRootIsLeaf] != 0
	return m
}

func relationNameBytes(name string) [20]byte {
	var b [20]byte
	copy(b[:], name)
	return b
}
