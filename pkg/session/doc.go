/*
Package session keeps the live lessons of a process.

Lessons are held in memory under their UUID for as long as the process runs.
There is no expiry and no persistence: a restart ends every lesson.
*/
package session
