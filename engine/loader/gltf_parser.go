package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion   = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic      = errors.New("invalid GLB magic number")
	errInvalidGLBVersion    = errors.New("invalid GLB version: must be 2")
	errGLBTooSmall          = errors.New("GLB file too small")
	errGLBTruncated         = errors.New("GLB file shorter than its header declares")
	errGLBChunkTooLarge     = errors.New("GLB chunk runs past the end of the file")
	errMissingJSONChunk     = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI     = errors.New("invalid buffer URI")
	errBufferSizeMismatch   = errors.New("buffer size mismatch")
	errAccessorOutOfBounds  = errors.New("accessor reads past the end of its buffer")
	errUnsupportedExtension = errors.New("unsupported required extension")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser loads glTF/GLB data, resolves its buffers and reads typed accessors.
// This is internal to the loader package.
type gltfParser interface {
	// Parse parses glTF JSON or GLB bytes. GLB is detected from the magic number.
	//
	// Parameters:
	//   - data: the file contents
	//   - baseDir: directory used to resolve relative buffer URIs
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(data []byte, baseDir string) error

	// Document returns the parsed glTF document, nil before a successful Parse.
	//
	// Returns:
	//   - *gltfDocument: the parsed document or nil
	Document() *gltfDocument

	// ReadVec2Accessor reads an accessor as vec2 float data.
	ReadVec2Accessor(accessorIndex int) ([][2]float32, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadIndicesAccessor reads an accessor as index data (uint32).
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data (converted to uint32)
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(data []byte, baseDir string) error {
	p.baseDir = baseDir
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		return p.parseGLB(data)
	}
	return p.parseDocument(data)
}

// parseGLB splits a GLB container into its JSON and BIN chunks.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errGLBTooSmall
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}
	if int64(header.Length) > int64(len(data)) {
		return fmt.Errorf("declared length %d exceeds %d bytes: %w", header.Length, len(data), errGLBTruncated)
	}

	var jsonData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("chunk of %d bytes: %w", chunkHeader.ChunkLength, errGLBChunkTooLarge)
		}
		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}
	return p.parseDocument(jsonData)
}

func (p *gltfParserImpl) parseDocument(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}

	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	for _, ext := range doc.ExtensionsRequired {
		if !gltfSupportedExtensions[ext] {
			return fmt.Errorf("%w: %s", errUnsupportedExtension, ext)
		}
	}

	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// loadBuffers loads all buffer data (from URIs, embedded data, or GLB binary chunk).
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			data, err := p.loadBufferURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// loadBufferURI loads buffer data from a data: URI or a path relative to the document.
func (p *gltfParserImpl) loadBufferURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}

	data, err := os.ReadFile(filepath.Join(p.baseDir, uri))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// --- Accessor Data Reading ---

// readAccessorData returns the tightly packed bytes of an accessor, de-interleaving strided views.
func (p *gltfParserImpl) readAccessorData(accessorIndex int) (*gltfAccessor, []byte, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}

	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, errors.New("sparse accessors not supported")
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, nil, errors.New("accessor has no valid bufferView")
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, nil, fmt.Errorf("bufferView references buffer %d out of range", bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, nil, fmt.Errorf("accessor %d has unsupported layout %s/%d", accessorIndex, acc.Type, acc.ComponentType)
	}
	if acc.Count < 0 || acc.ByteOffset < 0 || bv.ByteOffset < 0 {
		return nil, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOutOfBounds)
	}
	stride := elementSize
	if bv.ByteStride != nil {
		if *bv.ByteStride < elementSize {
			return nil, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOutOfBounds)
		}
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	if base < 0 || base > len(buf.Data) {
		return nil, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOutOfBounds)
	}
	if acc.Count > 0 {
		// compared by division so a huge count cannot overflow
		avail := len(buf.Data) - base
		if avail < elementSize || acc.Count-1 > (avail-elementSize)/stride {
			return nil, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOutOfBounds)
		}
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := base + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], buf.Data[src:src+elementSize])
	}
	return acc, result, nil
}

// readFloatAccessor decodes a float accessor of the given type into a slice of fixed-size vectors.
func readFloatAccessor[T any](p *gltfParserImpl, accessorIndex int, accessorType string) ([]T, error) {
	acc, data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != accessorType || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not %s FLOAT: type=%s, componentType=%d", accessorType, acc.Type, acc.ComponentType)
	}

	result := make([]T, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *gltfParserImpl) ReadVec2Accessor(accessorIndex int) ([][2]float32, error) {
	return readFloatAccessor[[2]float32](p, accessorIndex, gltfAccessorTypeVec2)
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	return readFloatAccessor[[3]float32](p, accessorIndex, gltfAccessorTypeVec3)
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, data, err := p.readAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	result := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range result {
			result[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range result {
			result[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range result {
			result[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return result, nil
}

// --- Helper Functions ---

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
