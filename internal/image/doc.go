// Package image moves sample arrays in and out of image files.
//
// Decoding goes through image.Decode with PNG and JPEG from the standard
// library and BMP, TIFF and WebP from golang.org/x/image. Samples are
// byte/255; encoding clamps to [0, 1] and rounds to the nearest byte.
package image
