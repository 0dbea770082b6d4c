//go:build !release

package vkbase

const validationDefault = true
