// Package media decides how an upload reaches the speech API.
//
// A Classifier sorts uploads into audio, video or unsupported from the
// declared content type and filename. Audio passes through untouched; video
// goes through an Extractor, which produces audio in one canonical Format.
package media
