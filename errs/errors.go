package errs

import "github.com/napalu/nestopt/i18n"

// Declaration errors. These are returned directly to the code declaring
// arguments and never go through the parse error path.
var (
	ErrUnsupportedType     = i18n.NewError(ErrUnsupportedTypeKey)
	ErrUnknownAction       = i18n.NewError(ErrUnknownActionKey)
	ErrInvalidNargs        = i18n.NewError(ErrInvalidNargsKey)
	ErrInvalidArgument     = i18n.NewError(ErrInvalidArgumentKey)
	ErrFlagAlreadyExists   = i18n.NewError(ErrFlagAlreadyExistsKey)
	ErrNamespaceExists     = i18n.NewError(ErrNamespaceExistsKey)
	ErrMultipleSubparsers  = i18n.NewError(ErrMultipleSubparsersKey)
	ErrCommandExists       = i18n.NewError(ErrCommandExistsKey)
	ErrDestinationConflict = i18n.NewError(ErrDestinationConflictKey)
	ErrInvalidConfig       = i18n.NewError(ErrInvalidConfigKey)
)

// Configuration loading errors
var (
	ErrConfigLoad              = i18n.NewError(ErrConfigLoadKey)
	ErrUnsupportedConfigFormat = i18n.NewError(ErrUnsupportedConfigFormatKey)
	ErrModuleArgsMissing       = i18n.NewError(ErrModuleArgsMissingKey)
	ErrReadArgumentFile        = i18n.NewError(ErrReadArgumentFileKey)
)

// Value errors
var (
	ErrTypeConversion = i18n.NewError(ErrTypeConversionKey)
	ErrInvalidLiteral = i18n.NewError(ErrInvalidLiteralKey)
	ErrExpectedObject = i18n.NewError(ErrExpectedObjectKey)
	ErrInvalidChoice  = i18n.NewError(ErrInvalidChoiceKey)
	ErrNotCountable   = i18n.NewError(ErrNotCountableKey)
)

// Parse errors
var (
	ErrVoidInput                  = i18n.NewError(ErrVoidInputKey)
	ErrRequiredArguments          = i18n.NewError(ErrRequiredArgumentsKey)
	ErrRequiredOneOf              = i18n.NewError(ErrRequiredOneOfKey)
	ErrNotAllowedWith             = i18n.NewError(ErrNotAllowedWithKey)
	ErrExpectedOneArgument        = i18n.NewError(ErrExpectedOneArgumentKey)
	ErrExpectedAtLeastOneArgument = i18n.NewError(ErrExpectedAtLeastOneArgumentKey)
	ErrExpectedNArguments         = i18n.NewError(ErrExpectedNArgumentsKey)
	ErrIgnoredExplicitArgument    = i18n.NewError(ErrIgnoredExplicitArgumentKey)
	ErrAmbiguousOption            = i18n.NewError(ErrAmbiguousOptionKey)
	ErrUnrecognizedArguments      = i18n.NewError(ErrUnrecognizedArgumentsKey)
	ErrPreParse                   = i18n.NewError(ErrPreParseKey)
)

// Control flow. Returned by a parse when help or version output was written
// and the configured exit function returned instead of terminating.
var (
	ErrHelpShown    = i18n.NewError(ErrHelpShownKey)
	ErrVersionShown = i18n.NewError(ErrVersionShownKey)
)
