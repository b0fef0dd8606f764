// Package html renders a mounted session as an HTML form using pongo2
// templates. Inputs show field buffers, pending edits are marked, and the
// last submit's validation errors are listed under each field.
package html
