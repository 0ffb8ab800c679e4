package ccb

import (
	"errors"

	"coppercube-loader/internal/binstream"
)

// Chunk ids.
const (
	tagDocument        = 1
	tagScene           = 2
	tagSceneGraph      = 8
	tagNode            = 9
	tagNodeBody        = 10
	tagMaterial        = 11
	tagEmbeddedFiles   = 12
	tagEmbeddedFile    = 13
	tagMesh            = 14
	tagMeshBuffer      = 15
	tagIndices         = 16
	tagVertices        = 17
	tagVertices2TCoord = 18
	tagVerticesTangent = 19
	tagPublishSettings = 20
	tagAnimator        = 25
	tagSceneAttributes = 26
	tagActionHandler   = 29
	tagAction          = 30
	tagJoint           = 33
	tagCurrentScene    = 1004
	tagDefaultCamera   = 1007

	// Nested inside an animated mesh body.
	tagMeshName       = 14
	tagNamedAnimation = 17
	// Nested inside a static mesh body.
	tagMeshRef = 15
)

const tagHeaderSize = 6

// tag is a chunk header. Start is the first payload byte; End is
// derived from the length field and clamped to the enclosing chunk.
type tag struct {
	ID        uint16
	Length    uint32
	Start     int
	End       int
	Truncated bool
}

func (d *decoder) readTag() (tag, error) {
	id := d.cur.U16()
	length := d.cur.U32()
	if err := d.cur.Err(); err != nil {
		return tag{}, err
	}
	t := tag{ID: id, Length: length, Start: d.cur.Tell()}
	end := int64(t.Start) + int64(length)
	if limit := int64(d.cur.Limit()); end > limit {
		end = limit
		t.Truncated = true
	}
	t.End = int(end)
	return t, nil
}

// within runs fn with reads bounded to the chunk and leaves the cursor
// at t.End whatever fn consumed. A read that ran off the chunk aborts
// only this chunk.
func (d *decoder) within(t tag, fn func() error) error {
	d.cur.PushLimit(t.End)
	err := fn()
	if perr := d.cur.PopLimit(); err == nil {
		err = perr
	}
	d.cur.Seek(t.End)
	if errors.Is(err, binstream.ErrUnexpectedEOF) {
		d.log.Debug("truncated chunk skipped", "tag", t.ID, "start", t.Start, "end", t.End, "error", err)
		return nil
	}
	if t.Truncated && err == nil {
		d.log.Debug("chunk length exceeds its container", "tag", t.ID, "start", t.Start, "length", t.Length)
	}
	return err
}

// eachTag dispatches every chunk that starts before end. Chunks fn
// does not recognise are skipped by returning nil.
func (d *decoder) eachTag(end int, fn func(t tag) error) error {
	for d.cur.BytesAvailable() > 0 && d.cur.Tell() < end {
		t, err := d.readTag()
		if err != nil {
			return err
		}
		if err := d.within(t, func() error { return fn(t) }); err != nil {
			return err
		}
	}
	return nil
}

// eachNested is eachTag bounded by the chunk currently being read.
func (d *decoder) eachNested(fn func(t tag) error) error {
	return d.eachTag(d.cur.Limit(), fn)
}
