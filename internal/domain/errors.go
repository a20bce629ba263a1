package domain

import "errors"

// Error kinds. Every error returned to the API boundary unwraps to one of these.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUploadFailed     = errors.New("upload failed")
)

// Error is a client-facing error with a message and an optional list of details.
type Error struct {
	Kind    error
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// Identifier errors
var (
	ErrInvalidUserID     = NewError(ErrInvalidArgument, "invalid user id")
	ErrInvalidVideoID    = NewError(ErrInvalidArgument, "invalid video id")
	ErrInvalidCommentID  = NewError(ErrInvalidArgument, "invalid comment id")
	ErrInvalidTweetID    = NewError(ErrInvalidArgument, "invalid tweet id")
	ErrInvalidPlaylistID = NewError(ErrInvalidArgument, "invalid playlist id")
	ErrInvalidChannelID  = NewError(ErrInvalidArgument, "invalid channel id")
)

// Lookup errors
var (
	ErrUserNotFound     = NewError(ErrNotFound, "user not found")
	ErrChannelNotFound  = NewError(ErrNotFound, "channel not found")
	ErrVideoNotFound    = NewError(ErrNotFound, "video not found")
	ErrCommentNotFound  = NewError(ErrNotFound, "comment not found")
	ErrTweetNotFound    = NewError(ErrNotFound, "tweet not found")
	ErrPlaylistNotFound = NewError(ErrNotFound, "playlist not found")
)

// Session errors
var (
	ErrMissingToken        = NewError(ErrUnauthenticated, "unauthorized request")
	ErrInvalidAccessToken  = NewError(ErrUnauthenticated, "invalid access token")
	ErrInvalidRefreshToken = NewError(ErrUnauthenticated, "invalid refresh token")
	ErrRefreshTokenReused  = NewError(ErrUnauthenticated, "refresh token expired or used")
	ErrInvalidCredentials  = NewError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidOldPassword  = NewError(ErrUnauthenticated, "invalid old password")
)

// Account errors
var (
	ErrUserExists         = NewError(ErrConflict, "user with username or email already exists")
	ErrPasswordMismatch   = NewError(ErrInvalidArgument, "new password and confirm password do not match")
	ErrPasswordUnchanged  = NewError(ErrInvalidArgument, "old password and new password cannot be same")
	ErrAvatarRequired     = NewError(ErrInvalidArgument, "avatar file is required")
	ErrCoverImageRequired = NewError(ErrInvalidArgument, "cover image file is required")
	ErrNothingToUpdate    = NewError(ErrInvalidArgument, "nothing to update")
)

// Ownership and relationship errors
var (
	ErrNotVideoOwner    = NewError(ErrForbidden, "you can only modify your own videos")
	ErrNotPlaylistOwner = NewError(ErrForbidden, "you can only modify your own playlists")
	ErrNotCommentOwner  = NewError(ErrForbidden, "you can only modify your own comments")
	ErrNotTweetOwner    = NewError(ErrForbidden, "you can only modify your own tweets")
	ErrSelfSubscription = NewError(ErrInvalidOperation, "you cannot subscribe to your own channel")
	ErrVideoInPlaylist  = NewError(ErrInvalidArgument, "video already exists in playlist")
	ErrVideoNotInList   = NewError(ErrInvalidArgument, "video does not exist in playlist")
)

// Media errors
var (
	ErrVideoFileRequired = NewError(ErrInvalidArgument, "video file and thumbnail are required")
	ErrThumbnailRequired = NewError(ErrInvalidArgument, "thumbnail is required")
	ErrTooManyFiles      = NewError(ErrInvalidArgument, "only one file is allowed per field")
)
