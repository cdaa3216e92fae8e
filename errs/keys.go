// Package errs holds the sentinel errors of nestopt. This file contains the
// translation keys they resolve to.
package errs

const (
	prefixKey = "nestopt"

	ErrorPrefixKey = prefixKey + ".error"
)

// Declaration errors
const (
	ErrUnsupportedTypeKey     = ErrorPrefixKey + ".unsupported_type"
	ErrUnknownActionKey       = ErrorPrefixKey + ".unknown_action"
	ErrInvalidNargsKey        = ErrorPrefixKey + ".invalid_nargs"
	ErrInvalidArgumentKey     = ErrorPrefixKey + ".invalid_argument"
	ErrFlagAlreadyExistsKey   = ErrorPrefixKey + ".flag_already_exists"
	ErrNamespaceExistsKey     = ErrorPrefixKey + ".namespace_exists"
	ErrMultipleSubparsersKey  = ErrorPrefixKey + ".multiple_subparsers"
	ErrCommandExistsKey       = ErrorPrefixKey + ".command_exists"
	ErrDestinationConflictKey = ErrorPrefixKey + ".destination_conflict"
	ErrInvalidConfigKey       = ErrorPrefixKey + ".invalid_config"
)

// Configuration loading errors
const (
	ErrConfigLoadKey              = ErrorPrefixKey + ".config_load"
	ErrUnsupportedConfigFormatKey = ErrorPrefixKey + ".unsupported_config_format"
	ErrModuleArgsMissingKey       = ErrorPrefixKey + ".module_args_missing"
	ErrReadArgumentFileKey        = ErrorPrefixKey + ".read_argument_file"
)

// Value errors
const (
	ErrTypeConversionKey = ErrorPrefixKey + ".type_conversion"
	ErrInvalidLiteralKey = ErrorPrefixKey + ".invalid_literal"
	ErrExpectedObjectKey = ErrorPrefixKey + ".expected_object"
	ErrInvalidChoiceKey  = ErrorPrefixKey + ".invalid_choice"
	ErrNotCountableKey   = ErrorPrefixKey + ".not_countable"
)

// Parse errors
const (
	ErrVoidInputKey                  = ErrorPrefixKey + ".void_input"
	ErrRequiredArgumentsKey          = ErrorPrefixKey + ".required_arguments"
	ErrRequiredOneOfKey              = ErrorPrefixKey + ".required_one_of"
	ErrNotAllowedWithKey             = ErrorPrefixKey + ".not_allowed_with"
	ErrExpectedOneArgumentKey        = ErrorPrefixKey + ".expected_one_argument"
	ErrExpectedAtLeastOneArgumentKey = ErrorPrefixKey + ".expected_at_least_one_argument"
	ErrExpectedNArgumentsKey         = ErrorPrefixKey + ".expected_n_arguments"
	ErrIgnoredExplicitArgumentKey    = ErrorPrefixKey + ".ignored_explicit_argument"
	ErrAmbiguousOptionKey            = ErrorPrefixKey + ".ambiguous_option"
	ErrUnrecognizedArgumentsKey      = ErrorPrefixKey + ".unrecognized_arguments"
	ErrPreParseKey                   = ErrorPrefixKey + ".pre_parse"
	ErrHelpShownKey                  = ErrorPrefixKey + ".help_shown"
	ErrVersionShownKey               = ErrorPrefixKey + ".version_shown"
)
