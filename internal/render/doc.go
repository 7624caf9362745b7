// Package render turns media metadata into post captions.
//
// A caption is produced by substituting {token} placeholders in a template
// body with values derived from the metadata record, the user's preferences,
// and a generated hashtag line. Each category ships a default template; users
// may store their own, which must contain {title}.
package render
