/*
Package auth is for authentication and authorization. It contains database interfaces (DBGroup, DBUser), the Principal which the entry pipeline consumes, and the glue between them.

# Roles and capabilities

Every principal has exactly one role. Contributors are authenticated users. Admins are members of at least one admin group.

A role is resolved into a set of capabilities once per request. Field policies require a single capability each, so checking a field is a bit test.

	contributor: edit content
	admin:       edit content, edit admin fields, override dates, assign creator, edit collection membership
*/
package auth
