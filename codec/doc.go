// Package codec selects a stream compression codec for point files.
//
// Point dumps are plain "x y" text. Large dumps compress well, so the file
// extension picks a codec transparently:
//
//	.gz   gzip   (klauspost/compress/gzip)
//	.zst  zstd   (klauspost/compress/zstd)
//	.lz4  lz4    (pierrec/lz4/v4 frame format)
//	*     raw    (no compression)
//
// Writers MUST be closed to flush the compressed frame; closing a codec
// writer never closes the underlying io.Writer.
package codec
