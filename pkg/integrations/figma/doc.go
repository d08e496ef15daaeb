// Package figma reads published fill styles from a Figma library file.
//
// Only styles of type FILL are kept; text, effect and grid styles are
// dropped. Requests authenticate with the X-FIGMA-TOKEN header.
package figma
