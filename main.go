/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import "github.com/NoSinging/JIRA-Issue-Analytics/cmd"

func main() {
    cmd.Execute()
}
