package fs

import (
	"io"
	"os"

	"github.com/bsurber/vfsimage/errs"
)

// Backing is the minimal interface the engine needs from a host file:
// random access reads and writes, seeking (part of the interface but
// not called by the engine), truncation (used by CreateBacking to
// extend the store through the fixed-size regions; the blocks region
// grows through WriteAt), and a way to learn the current length. *os.File
// satisfies this through the fileBacking adapter returned by Open and
// Create.
type Backing interface {
	io.ReaderAt
	io.WriterAt
	io.Seeker
	io.Closer
	Truncate(size int64) error
	Size() (int64, error)
}

// Image is a single mounted filesystem image: the backing host file
// plus nothing else. There is no in-process cache; every operation
// reads and writes the backing store directly, and callers must not
// run two operations against the same Image concurrently.
type Image struct {
	backing Backing
}

type fileBacking struct {
	f *os.File
}

func (fb *fileBacking) ReadAt(p []byte, off int64) (int, error) {
	return fb.f.ReadAt(p, off)
}

func (fb *fileBacking) WriteAt(p []byte, off int64) (int, error) {
	return fb.f.WriteAt(p, off)
}

func (fb *fileBacking) Seek(offset int64, whence int) (int64, error) {
	return fb.f.Seek(offset, whence)
}

func (fb *fileBacking) Truncate(size int64) error {
	return fb.f.Truncate(size)
}

func (fb *fileBacking) Size() (int64, error) {
	info, err := fb.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (fb *fileBacking) Close() error {
	return fb.f.Close()
}

// Open opens an existing image file at path, validating its superblock.
// It fails with errs.ErrBadImage if the magic number or block size is
// not the one this engine supports.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}
	return OpenBacking(&fileBacking{f: f})
}

// OpenBacking opens an image whose backing store already exists,
// validating its superblock. It is the core logic behind Open, exposed
// directly so tests can mount an in-memory backing store.
func OpenBacking(backing Backing) (*Image, error) {
	header := make([]byte, superblockBytes)
	if _, err := backing.ReadAt(header, superblockOffset); err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}

	sb, err := readSuperblock(header)
	if err != nil {
		return nil, errs.ErrBadImage.Wrap(err)
	}
	if sb.Magic != Magic {
		return nil, errs.ErrBadImage.WithMessage("wrong magic number")
	}
	if sb.BlockSize != BlockSize {
		return nil, errs.ErrBadImage.WithMessage("unsupported block size")
	}

	return &Image{backing: backing}, nil
}

// Create creates a brand-new image file at path and formats it: a
// superblock, a block bitmap with bit 0 set, an inode bitmap with bit 0
// set, a full inode table whose slot 0 is the root directory, and the
// root's first directory block.
func Create(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}
	return CreateBacking(&fileBacking{f: f})
}

// CreateBacking formats a fresh backing store, the core logic behind
// Create, exposed so tests can format an in-memory backing store.
func CreateBacking(backing Backing) (*Image, error) {
	img := &Image{backing: backing}

	sbBytes := encodeSuperblock(rawSuperblock{Magic: Magic, BlockSize: BlockSize})
	if _, err := backing.WriteAt(sbBytes, superblockOffset); err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}

	// Extend the backing store out through the end of the fixed-size
	// regions (superblock, block bitmap, inode bitmap, inode table)
	// before anything reads or writes into them. On a real host file a
	// ReadAt past the current length fails with io.EOF rather than
	// reading zeroes, so the bitmaps and inode table must be grown up
	// front; the blocks region itself still grows lazily as blocks are
	// allocated.
	if err := backing.Truncate(BlocksOffset); err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}

	// Mark inode 0 (root) allocated in the inode bitmap. The block
	// bitmap's bit 0 is claimed below by occupyBlock for the root's
	// first directory block.
	inodeBitmap, err := img.readInodeBitmap()
	if err != nil {
		return nil, err
	}
	inodeBitmap.Set(int(RootInode), true)
	if err := img.writeInodeBitmap(inodeBitmap); err != nil {
		return nil, err
	}

	rootBlock, err := img.occupyBlock()
	if err != nil {
		return nil, err
	}
	if rootBlock != 0 {
		// The image was just created, so block 0 must be free; this
		// would only fire if occupyBlock's scan logic regresses.
		return nil, errs.ErrBadImage.WithMessage("root data block is not block 0")
	}

	rootDirBlock := make([]byte, BlockSize)
	initDirBlock(rootDirBlock, RootInode, RootInode)
	if err := img.updateBlock(rootBlock, rootDirBlock); err != nil {
		return nil, err
	}

	rootInode := Inode{
		FileType: TypeDirectory,
		FileSize: 1,
	}
	rootInode.BlockP[0] = rootBlock
	if err := img.updateInode(RootInode, rootInode); err != nil {
		return nil, err
	}

	return img, nil
}

// Close releases the backing host file.
func (img *Image) Close() error {
	return img.backing.Close()
}

// Stat reads and decodes inode p's record.
func (img *Image) Stat(p InodePtr) (Inode, error) {
	return img.getInode(p)
}
