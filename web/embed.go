package web

import "embed"

// StaticFS embeds the browser client (markup, styles, application state).
//
//go:embed static/*
var StaticFS embed.FS
