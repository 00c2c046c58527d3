package i18n

import (
	"fmt"
	"os"
	"strings"
)

// EnvLang selects the message language when neither --lang nor the settings file do
const EnvLang = "PLAYBOOK_LANG"

var currentLanguage = "en" // default English

// messages holds the user-facing strings per language
var messages = map[string]map[string]string{
	"en": {
		// Common
		"success": "Success",
		"failed":  "Failed",
		"error":   "Error",
		"warning": "Warning",

		// Prompts
		"prompt.select_project": "Select project:",
		"prompt.select_script":  "Select script to run for %s:",
		"prompt.select_from":    "Select from: [%s]",
		"prompt.project_url":    "Project URL :",
		"prompt.project_name":   "Project Name :",
		"cancelled":             "See ya ('__') /",

		// Project operations
		"success.project_added":    "Project Added",
		"success.project_removed":  "Project Removed",
		"success.settings_updated": "Settings updated :D !",
		"success.copied":           "Copied to clipboard",
		"warn.directory_ignored":   "Project's local directory value will be ignored when --url flag is on",

		// Errors
		"error.invalid_url":       "Not a valid URL",
		"error.duplicate_project": "Project with this name already exists",
		"error.project_not_found": "Project with name %s does not exist",
		"error.no_projects":       "No projects yet, add one with %s",
		"error.not_interactive":   "Nothing selected and no terminal to ask in, pass the name as an argument",
		"error.access_denied":     "Access Denied! please try again as %s",
		"error.report":            "If you think it is my fault please create an issue with the log below",
		"error.err":               "Err: %v",

		// Hints
		"hint.valid_url":     "A valid URL looks something like %s",
		"hint.remove_select": "Try %s and select the project you want to remove",
		"hint.super_user":    "a super user %s",
		"hint.admin":         "an administrator",
		"hint.did_you_mean":  "Did you mean this?",

		// Listing
		"list.projects":    "Projects",
		"list.scripts":     "Scripts",
		"list.options":     "Options",
		"list.no_projects": "No projects saved",

		// Backup, export, import
		"backup.created":     "Backup created: %s",
		"backup.restored":    "Restored %s (previous settings saved as %s)",
		"backup.none":        "No backups yet",
		"export.done":        "Settings exported to %s",
		"import.done":        "Imported %d project(s), %d script(s)",
		"import.no_changes":  "Nothing to change",
		"import.dry_run":     "Dry run, settings left untouched",
		"config_dir.opened":  "Opened settings directory in file manager",
		"config_dir.missing": "Settings directory does not exist yet: %s",
	},
	"zh": {
		// Common
		"success": "成功",
		"failed":  "失败",
		"error":   "错误",
		"warning": "警告",

		// Prompts
		"prompt.select_project": "选择项目:",
		"prompt.select_script":  "选择要在 %s 中运行的脚本:",
		"prompt.select_from":    "可选: [%s]",
		"prompt.project_url":    "项目 URL :",
		"prompt.project_name":   "项目名称 :",
		"cancelled":             "再见 ('__') /",

		// Project operations
		"success.project_added":    "项目已添加",
		"success.project_removed":  "项目已删除",
		"success.settings_updated": "设置已更新 :D !",
		"success.copied":           "已复制到剪贴板",
		"warn.directory_ignored":   "使用 --url 时将忽略本地目录参数",

		// Errors
		"error.invalid_url":       "URL 无效",
		"error.duplicate_project": "同名项目已存在",
		"error.project_not_found": "名为 %s 的项目不存在",
		"error.no_projects":       "还没有项目，使用 %s 添加",
		"error.not_interactive":   "未指定名称且当前不是交互终端，请通过参数传入名称",
		"error.access_denied":     "权限不足！请以 %s 身份重试",
		"error.report":            "如果你认为这是程序的问题，请附上以下日志提交 issue",
		"error.err":               "错误: %v",

		// Hints
		"hint.valid_url":     "有效的 URL 形如 %s",
		"hint.remove_select": "尝试 %s 并选择要删除的项目",
		"hint.super_user":    "超级用户 %s",
		"hint.admin":         "管理员",
		"hint.did_you_mean":  "你是不是想要:",

		// Listing
		"list.projects":    "项目",
		"list.scripts":     "脚本",
		"list.options":     "选项",
		"list.no_projects": "尚未保存任何项目",

		// Backup, export, import
		"backup.created":     "备份已创建: %s",
		"backup.restored":    "已恢复 %s（原设置已备份为 %s）",
		"backup.none":        "暂无备份",
		"export.done":        "设置已导出到 %s",
		"import.done":        "已导入 %d 个项目，%d 个脚本",
		"import.no_changes":  "没有需要修改的内容",
		"import.dry_run":     "演练模式，未修改设置",
		"config_dir.opened":  "已在文件管理器中打开设置目录",
		"config_dir.missing": "设置目录尚不存在: %s",
	},
}

// Init picks the first supported language among candidates, then $PLAYBOOK_LANG.
// Candidates are typically the --lang flag and the settings file value.
func Init(candidates ...string) {
	for _, lang := range append(candidates, os.Getenv(EnvLang)) {
		if SetLanguage(lang) {
			return
		}
	}
}

// SetLanguage switches the message table; unsupported values are ignored
func SetLanguage(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := messages[lang]; ok {
		currentLanguage = lang
		return true
	}
	return false
}

// GetLanguage returns the active language code
func GetLanguage() string {
	return currentLanguage
}

// Supported lists the language codes with a message table
func Supported() []string {
	return []string{"en", "zh"}
}

// T translates key, formatting args into it when given
func T(key string, args ...interface{}) string {
	langMessages, ok := messages[currentLanguage]
	if !ok {
		langMessages = messages["en"]
	}

	msg, ok := langMessages[key]
	if !ok {
		return key // unknown keys print as-is
	}

	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}

	return msg
}
