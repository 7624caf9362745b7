// Package media defines the content categories the bot can post about and the
// metadata records that flow between catalog providers, the session store, and
// the render/card pipelines.
//
// Records are category-polymorphic: a single Record type carries the shared
// fields plus additive category extras, selected by the Category tag. Records
// are immutable once fetched; during a flow they are owned by the user's
// session state.
package media
