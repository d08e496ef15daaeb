// Package style defines library styles, style pools and category extraction.
//
// Style names are slash-delimited paths such as "Avatars/People/Henri". A
// category filter is a case-sensitive substring of the name; a [Categorizer]
// derives the list of categories offered to the user from a configurable
// regular expression and capture group.
package style
