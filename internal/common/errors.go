package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// auth specific errors
	ErrorNotSignedIn  = errors.New("not signed in")
	ErrorTokenExpired = errors.New("token expired")

	// sync engine specific errors
	ErrorSyncInProgress  = errors.New("sync already in progress")
	ErrorPayloadTooLarge = errors.New("payload too large")

	// queue specific errors
	ErrorQueueItemDead = errors.New("queue item is dead")
)
