package taxonomy

// ssdfPractices returns the embedded NIST SSDF v1.1 practice data. Order is
// significant: planning families (PO, PS) precede implementation families
// (PW, RV), and reports list practices in this order.
func ssdfPractices() []Practice {
	return []Practice{

		// =================================================================
		// Planning phase: Prepare the Organization (PO)
		// =================================================================
		{
			ID:           "PO.1",
			Name:         "Define Security Requirements for Software Development",
			Phase:        PhasePlanning,
			SubPractices: []string{"PO.1.1", "PO.1.2", "PO.1.3"},
		},
		{
			ID:           "PO.2",
			Name:         "Implement Roles and Responsibilities",
			Phase:        PhasePlanning,
			SubPractices: []string{"PO.2.1", "PO.2.2", "PO.2.3"},
		},
		{
			ID:             "PO.3",
			Name:           "Implement Supporting Toolchains",
			Phase:          PhasePlanning,
			SubPractices:   []string{"PO.3.1", "PO.3.2", "PO.3.3"},
			RuleCategories: []string{"CICD"},
		},
		{
			ID:           "PO.4",
			Name:         "Define and Use Criteria for Software Security Checks",
			Phase:        PhasePlanning,
			SubPractices: []string{"PO.4.1", "PO.4.2"},
		},
		{
			ID:             "PO.5",
			Name:           "Implement and Maintain Secure Environments",
			Phase:          PhasePlanning,
			SubPractices:   []string{"PO.5.1", "PO.5.2"},
			RuleCategories: []string{"CONFIG"},
		},

		// =================================================================
		// Planning phase: Protect the Software (PS)
		// =================================================================
		{
			ID:             "PS.1",
			Name:           "Protect All Forms of Code from Unauthorized Access and Tampering",
			Phase:          PhasePlanning,
			SubPractices:   []string{"PS.1.1"},
			RuleCategories: []string{"SECRETS"},
		},
		{
			ID:             "PS.2",
			Name:           "Provide a Mechanism for Verifying Software Release Integrity",
			Phase:          PhasePlanning,
			SubPractices:   []string{"PS.2.1"},
			RuleCategories: []string{"SUPPLY"},
		},
		{
			ID:           "PS.3",
			Name:         "Archive and Protect Each Software Release",
			Phase:        PhasePlanning,
			SubPractices: []string{"PS.3.1", "PS.3.2"},
		},

		// =================================================================
		// Implementation phase: Produce Well-Secured Software (PW)
		// =================================================================
		{
			ID:           "PW.1",
			Name:         "Design Software to Meet Security Requirements and Mitigate Risks",
			Phase:        PhaseImplementation,
			SubPractices: []string{"PW.1.1", "PW.1.2", "PW.1.3"},
		},
		{
			ID:           "PW.2",
			Name:         "Review the Software Design",
			Phase:        PhaseImplementation,
			SubPractices: []string{"PW.2.1"},
		},
		{
			ID:             "PW.4",
			Name:           "Reuse Existing, Well-Secured Software When Feasible",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"PW.4.1", "PW.4.2", "PW.4.4"},
			RuleCategories: []string{"DEPS", "SUPPLY"},
		},
		{
			ID:             "PW.5",
			Name:           "Create Source Code by Adhering to Secure Coding Practices",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"PW.5.1"},
			RuleCategories: []string{"INJECT", "CRYPTO", "INPUT"},
		},
		{
			ID:             "PW.6",
			Name:           "Configure the Compilation and Build Processes to Improve Security",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"PW.6.1", "PW.6.2"},
			RuleCategories: []string{"CICD"},
		},
		{
			ID:             "PW.7",
			Name:           "Review and/or Analyze Human-Readable Code",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"PW.7.1", "PW.7.2"},
			RuleCategories: []string{"INJECT", "CRYPTO"},
		},
		{
			ID:           "PW.8",
			Name:         "Test Executable Code to Identify Vulnerabilities",
			Phase:        PhaseImplementation,
			SubPractices: []string{"PW.8.1", "PW.8.2"},
		},
		{
			ID:             "PW.9",
			Name:           "Configure Software to Have Secure Settings by Default",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"PW.9.1", "PW.9.2"},
			RuleCategories: []string{"CONFIG"},
		},

		// =================================================================
		// Implementation phase: Respond to Vulnerabilities (RV)
		// =================================================================
		{
			ID:             "RV.1",
			Name:           "Identify and Confirm Vulnerabilities on an Ongoing Basis",
			Phase:          PhaseImplementation,
			SubPractices:   []string{"RV.1.1", "RV.1.2", "RV.1.3"},
			RuleCategories: []string{"DEPS", "VULN"},
		},
		{
			ID:           "RV.2",
			Name:         "Assess, Prioritize, and Remediate Vulnerabilities",
			Phase:        PhaseImplementation,
			SubPractices: []string{"RV.2.1", "RV.2.2"},
		},
		{
			ID:           "RV.3",
			Name:         "Analyze Vulnerabilities to Identify Their Root Causes",
			Phase:        PhaseImplementation,
			SubPractices: []string{"RV.3.1", "RV.3.2", "RV.3.3", "RV.3.4"},
		},
	}
}
