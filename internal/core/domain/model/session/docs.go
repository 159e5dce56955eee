// Package session holds server-side user sessions with an idle timeout.
package session
