package messages

const (
	prefixKey     = "nestopt"
	HelpPrefixKey = prefixKey + ".help"
)

// Help section titles and fixed help strings
const (
	MsgUsageKey               = HelpPrefixKey + ".usage"
	MsgErrorKey               = HelpPrefixKey + ".error"
	MsgPositionalArgumentsKey = HelpPrefixKey + ".positional_arguments"
	MsgOptionsKey             = HelpPrefixKey + ".options"
	MsgRequiredArgumentsKey   = HelpPrefixKey + ".required_arguments"
	MsgSubcommandsKey         = HelpPrefixKey + ".subcommands"
	MsgNamespaceKey           = HelpPrefixKey + ".namespace"
	MsgCommandKey             = HelpPrefixKey + ".command"
	MsgHelpKey                = HelpPrefixKey + ".help"
	MsgHelpPlusKey            = HelpPrefixKey + ".help_plus"
	MsgVersionKey             = HelpPrefixKey + ".version"
)
